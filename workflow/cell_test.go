package workflow

import (
	"strings"
	"testing"

	"github.com/madamisu/venue_backend/models"
)

func TestParseTimeRange_DecimalHours(t *testing.T) {
	cases := []struct {
		title      string
		start, end string
	}{
		{"裂き子さん(14.5-18)", "14:30", "18:00"},
		{"募・トレタリ(19-22)", "19:00", "22:00"},
		{"テスプ (9.25-13)", "09:15", "13:00"},
		{"狂気山脈（13.75-18）", "13:45", "18:00"}, // full-width parens
	}
	for _, c := range cases {
		start, end, ok := ParseTimeRange(c.title)
		if !ok {
			t.Errorf("%q: no time range found", c.title)
			continue
		}
		if start != c.start || end != c.end {
			t.Errorf("%q: got %s-%s, want %s-%s", c.title, start, end, c.start, c.end)
		}
	}
	if _, _, ok := ParseTimeRange("裂き子さん✅"); ok {
		t.Error("title without brackets should not parse a range")
	}
}

func TestDetermineCategory_Prefixes(t *testing.T) {
	cases := map[string]string{
		"貸・裂き子さん(14.5-18)":  models.CategoryPrivate,
		"募・トレタリ(19-22)":     models.CategoryOpen,
		"出張・ナナイロ":           models.CategoryOffsite,
		"GMテスト・狂気山脈":        models.CategoryGmTest,
		"テスプ・新作":            models.CategoryTestplay,
		"MTG(14-16)":         models.CategoryMtg,
		"裂き子さん(19-22)":      models.CategoryOpen, // no prefix defaults to open
	}
	for title, want := range cases {
		if got := DetermineCategory(title); got != want {
			t.Errorf("%q: category %s, want %s", title, got, want)
		}
	}
}

func TestExtractScenarioName_StripsEverythingButTheName(t *testing.T) {
	cases := map[string]string{
		"貸・裂き子さん(14.5-18)✅":  "裂き子さん",
		"募・トレタリ※残2名":         "トレタリ",
		"狂気山脈🈵":             "狂気山脈",
		"出張・ナナイロ3000円":       "ナナイロ",
		"社内MTG":              "MTG（マネージャーミーティング）",
	}
	for title, want := range cases {
		if got := ExtractScenarioName(title); got != want {
			t.Errorf("%q: name %q, want %q", title, got, want)
		}
	}
}

func TestExtractPriceAndReservationInfo(t *testing.T) {
	title := "貸・田中様3000円 裂き子さん(14.5-18)"
	if fee := ExtractPrice(title); fee.String() != "3000" {
		t.Errorf("fee = %s, want 3000", fee)
	}
	info := ExtractReservationInfo(title)
	if info != "貸・田中様 / 3000円" {
		t.Errorf("reservation info = %q", info)
	}
	if fee := ExtractPrice("募・トレタリ"); !fee.IsZero() {
		t.Errorf("fee without price token = %s, want 0", fee)
	}
}

func TestExtractNotes_Glyphs(t *testing.T) {
	notes := ExtractNotes("募・トレタリ(19-22)✅@3人※初心者歓迎")
	for _, want := range []string{"告知済み", "参加者募集中(@3)", "※初心者歓迎"} {
		if !strings.Contains(notes, want) {
			t.Errorf("notes %q missing %q", notes, want)
		}
	}
	if ExtractNotes("裂き子さん(19-22)") != "" {
		t.Error("plain title should carry no notes")
	}
}

func TestTitleIsCancelled(t *testing.T) {
	if !TitleIsCancelled("募・トレタリ🙅") {
		t.Error("🙅 marks cancellation")
	}
	if !TitleIsCancelled("募・トレタリ🙅‍♀️中止") {
		t.Error("emoji variant still contains the base glyph")
	}
	if TitleIsCancelled("募・トレタリ") {
		t.Error("plain title is not cancelled")
	}
}

func TestIsMemoResidual(t *testing.T) {
	if !IsMemoResidual("", false) {
		t.Error("empty residual without time is a memo")
	}
	if !IsMemoResidual("休", false) {
		t.Error("single-rune residual without time is a memo")
	}
	if IsMemoResidual("", true) {
		t.Error("an explicit time range always means an event")
	}
	if IsMemoResidual("トレタリ", false) {
		t.Error("a real name is never a memo")
	}
}
