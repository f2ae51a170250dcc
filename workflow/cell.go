package workflow

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/madamisu/venue_backend/models"
	"github.com/shopspring/decimal"
)

// Cell-level parsing of one time-slot cell: a title like
// "貸・裂き子さん(14.5-18)⭕3000円✅" carries category, scenario, time range,
// price and status markers all in one string. Strip order matters: time
// range first, then category prefix, then markers, then price; whatever
// survives is the scenario-name residual.

var (
	timeRangeRe   = regexp.MustCompile(`\((\d+(?:\.\d+)?)-(\d+(?:\.\d+)?)\)`)
	priceRe       = regexp.MustCompile(`(\d+)円`)
	customerRe    = regexp.MustCompile(`([^(（]+様)`)
	recruitRe     = regexp.MustCompile(`@(\d+)(?:人)?`)
	noteRe        = regexp.MustCompile(`※([^※]+)`)
	leadScenRe    = regexp.MustCompile(`^([^(（]+)`)
)

// categoryPrefixes in match order; the more specific tokens come first.
var categoryPrefixes = []struct {
	prefix   string
	category string
}{
	{"貸・", models.CategoryPrivate},
	{"貸/", models.CategoryPrivate},
	{"募・", models.CategoryOpen},
	{"募/", models.CategoryOpen},
	{"出張・", models.CategoryOffsite},
	{"GMテスト・", models.CategoryGmTest},
	{"テストプレイ・", models.CategoryTestplay},
	{"テスプ・", models.CategoryTestplay},
	{"テスプ ", models.CategoryTestplay},
}

// markerGlyphs end the scenario-name residual wherever they appear.
var markerGlyphs = []string{"※", "✅", "🈵", "🙅", "🈳"}

// normalizeParens folds full-width parentheses so one regex covers both.
func normalizeParens(s string) string {
	s = strings.ReplaceAll(s, "（", "(")
	s = strings.ReplaceAll(s, "）", ")")
	return s
}

// ParseTimeRange extracts a bracketed decimal-hour range: "(14.5-18)" means
// 14:30-18:00 (hour = floor, minute = round of the fraction times 60).
func ParseTimeRange(title string) (start, end string, ok bool) {
	m := timeRangeRe.FindStringSubmatch(normalizeParens(title))
	if m == nil {
		return "", "", false
	}
	s, err1 := strconv.ParseFloat(m[1], 64)
	e, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return "", "", false
	}
	return clockFromDecimal(s), clockFromDecimal(e), true
}

func clockFromDecimal(v float64) string {
	hour := int(math.Floor(v))
	minute := int(math.Round((v - float64(hour)) * 60))
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// DetermineCategory classifies a raw title by its prefix tokens.
func DetermineCategory(title string) string {
	for _, p := range categoryPrefixes {
		if strings.HasPrefix(title, p.prefix) {
			return p.category
		}
	}
	switch {
	case strings.Contains(title, "MTG"):
		return models.CategoryMtg
	case strings.Contains(title, "テストプレイ"), strings.Contains(title, "テスプ"):
		return models.CategoryTestplay
	case strings.Contains(title, "GMテスト"), strings.Contains(title, "テスト"):
		return models.CategoryGmTest
	}
	return models.CategoryOpen
}

// ExtractScenarioName strips everything that is not the scenario name:
// category prefix, the time range and anything after the opening paren,
// marker glyphs and price tokens.
func ExtractScenarioName(title string) string {
	text := strings.TrimSpace(title)
	if text == "" {
		return ""
	}
	for _, p := range categoryPrefixes {
		if strings.HasPrefix(text, p.prefix) {
			text = text[len(p.prefix):]
			break
		}
	}
	if strings.Contains(text, "MTG") {
		return "MTG（マネージャーミーティング）"
	}
	if m := leadScenRe.FindStringSubmatch(normalizeParens(text)); m != nil {
		text = m[1]
	}
	for _, glyph := range markerGlyphs {
		if i := strings.Index(text, glyph); i >= 0 {
			text = text[:i]
		}
	}
	text = priceRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractPrice picks the first NNN円 token as the participation fee.
func ExtractPrice(title string) decimal.Decimal {
	m := priceRe.FindStringSubmatch(title)
	if m == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ExtractReservationInfo pulls customer names (〜様) and the price token out
// of a private-booking title.
func ExtractReservationInfo(title string) string {
	var parts []string
	if m := customerRe.FindStringSubmatch(title); m != nil {
		customer := strings.TrimSpace(priceRe.ReplaceAllString(m[1], ""))
		if customer != "" {
			parts = append(parts, customer)
		}
	}
	if m := priceRe.FindStringSubmatch(title); m != nil {
		parts = append(parts, m[0])
	}
	return strings.Join(parts, " / ")
}

// ExtractNotes collects the free-text and glyph-encoded annotations.
func ExtractNotes(title string) string {
	var notes []string
	if m := noteRe.FindStringSubmatch(title); m != nil {
		notes = append(notes, "※"+strings.TrimSpace(m[1]))
	}
	if strings.Contains(title, "✅") {
		notes = append(notes, "告知済み")
	}
	if strings.Contains(title, "🈵") {
		notes = append(notes, "満席")
	}
	if strings.Contains(title, "🙅") {
		notes = append(notes, "中止")
	}
	if m := recruitRe.FindStringSubmatch(title); m != nil && strings.Contains(title, "人") {
		notes = append(notes, "参加者募集中(@"+m[1]+")")
	}
	if strings.Contains(title, "指定") {
		notes = append(notes, "GM指定")
	}
	if strings.Contains(title, "見学") {
		notes = append(notes, "見学あり")
	}
	return strings.Join(notes, " / ")
}

// TitleIsCancelled reports the 🙅 cancellation glyph (either variant, the
// emoji sequence contains the base rune).
func TitleIsCancelled(title string) bool {
	return strings.Contains(title, "🙅")
}

// IsMemoResidual decides memo-vs-event for a parsed cell: with no explicit
// time range and at most one rune of residual scenario text, the cell is a
// free-text note, not a bookable event.
func IsMemoResidual(residual string, hasExplicitTime bool) bool {
	if hasExplicitTime {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(residual)) <= 1
}
