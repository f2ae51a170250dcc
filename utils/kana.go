package utils

import "strings"

// KatakanaToHiragana folds katakana into hiragana. The two scripts are a
// fixed Unicode offset apart (ァ U+30A1 .. ヶ U+30F6 vs ぁ U+3041 .. ゖ
// U+3096), so staff names written in either script compare equal after the
// fold. The prolonged sound mark ー is left alone.
func KatakanaToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// FoldFullWidth maps full-width ASCII (Ａ-Ｚ, ０-９ etc) and the ideographic
// space to their half-width forms. Source sheets mix both widths freely.
func FoldFullWidth(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r >= 0xFF01 && r <= 0xFF5E:
			runes[i] = r - 0xFEE0
		case r == 0x3000: // ideographic space
			runes[i] = ' '
		}
	}
	return string(runes)
}

// FoldName is the comparison key for human-entered names: trimmed,
// width-folded, lowercased, katakana folded to hiragana.
func FoldName(s string) string {
	return KatakanaToHiragana(strings.ToLower(strings.TrimSpace(FoldFullWidth(s))))
}
