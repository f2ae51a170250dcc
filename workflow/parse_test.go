package workflow

import (
	"strings"
	"testing"

	"github.com/madamisu/venue_backend/models"
)

var testVenues = map[string]string{
	"馬場": "store-baba",
	"高田": "store-takada",
	"出張": "",
}

// Row layout: date, weekday, venue, then three title/assignee column pairs
// for morning, afternoon and evening.
func TestParseAndResolve_FullRow(t *testing.T) {
	raw := "9/1\t月\t馬場\t\t\t\t\t貸・さきこさん(19-22)3000円\tそら\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, want 1 (warnings: %v)", len(res.Drafts), res.Warnings)
	}
	d := res.Drafts[0]
	if d.Date != "2025-09-01" {
		t.Errorf("date = %s", d.Date)
	}
	if d.StoreId == nil || *d.StoreId != "store-baba" {
		t.Errorf("store id = %v", d.StoreId)
	}
	if d.Scenario != "裂き子さん" || d.ScenarioId == nil {
		t.Errorf("scenario = %q (%v), want resolved 裂き子さん", d.Scenario, d.ScenarioId)
	}
	if len(d.GMs) != 1 || d.GMs[0] != "ソラ" {
		t.Errorf("gms = %v, want [ソラ]", d.GMs)
	}
	if d.StartTime != "19:00" || d.EndTime != "22:00" || d.TimeSlot != SlotEvening {
		t.Errorf("time = %s-%s %s", d.StartTime, d.EndTime, d.TimeSlot)
	}
	if d.Category != models.CategoryPrivate || d.Fee.String() != "3000" {
		t.Errorf("category = %s fee = %s", d.Category, d.Fee)
	}
}

// An explicit time range wins over the column position: a 19-22 run pasted
// into the first slot column still buckets as evening.
func TestParseAndResolve_ExplicitTimeOverridesColumnSlot(t *testing.T) {
	raw := "9/1\t月\t馬場\tさきこさん(19-22)\tそら\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(res.Drafts))
	}
	d := res.Drafts[0]
	if d.TimeSlot != SlotEvening || d.StartTime != "19:00" || d.EndTime != "22:00" {
		t.Errorf("slot = %s %s-%s, want evening 19:00-22:00", d.TimeSlot, d.StartTime, d.EndTime)
	}
	if d.Scenario != "裂き子さん" || len(d.GMs) != 1 || d.GMs[0] != "ソラ" {
		t.Errorf("resolution: scenario %q gms %v", d.Scenario, d.GMs)
	}
}

func TestParseAndResolve_DateCarriesAcrossVenueRows(t *testing.T) {
	raw := "9/1\t月\t馬場\t\t\t\t\t狂気山脈(19-22)\tソラ\n" +
		"\t\t高田\t\t\t\t\t狂気山脈2(19-22)\tミナト\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 2 {
		t.Fatalf("drafts = %d, want 2", len(res.Drafts))
	}
	if res.Drafts[1].Date != "2025-09-01" {
		t.Errorf("carried date = %s, want 2025-09-01", res.Drafts[1].Date)
	}
	if *res.Drafts[1].StoreId != "store-takada" {
		t.Errorf("store = %s", *res.Drafts[1].StoreId)
	}
}

func TestParseAndResolve_WeekendAfternoonDefault(t *testing.T) {
	// 2025-09-06 is a Saturday; afternoon column, no explicit range.
	raw := "9/6\t土\t馬場\t\t\t狂気山脈\tソラ\n" +
		"9/8\t月\t馬場\t\t\t狂気山脈\tソラ\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 2 {
		t.Fatalf("drafts = %d, want 2", len(res.Drafts))
	}
	if res.Drafts[0].StartTime != "14:00" || res.Drafts[0].EndTime != "18:00" {
		t.Errorf("saturday afternoon = %s-%s, want 14:00-18:00", res.Drafts[0].StartTime, res.Drafts[0].EndTime)
	}
	if res.Drafts[1].StartTime != "13:00" {
		t.Errorf("weekday afternoon start = %s, want 13:00", res.Drafts[1].StartTime)
	}
}

func TestParseAndResolve_OffsiteVenueHasNoStore(t *testing.T) {
	raw := "9/1\t月\t出張\t\t\t\t\t出張・ナナイロ(19-22)\tソラ\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(res.Drafts))
	}
	d := res.Drafts[0]
	if d.StoreId != nil {
		t.Errorf("offsite draft must have nil store id, got %v", *d.StoreId)
	}
	if d.Category != models.CategoryOffsite {
		t.Errorf("category = %s", d.Category)
	}
}

func TestParseAndResolve_MemoCell(t *testing.T) {
	raw := "9/1\t月\t馬場\t※9月は月曜定休\t\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 0 {
		t.Fatalf("memo cell produced drafts: %v", res.Drafts)
	}
	if len(res.Memos) != 1 {
		t.Fatalf("memos = %d, want 1", len(res.Memos))
	}
	m := res.Memos[0]
	if m.StoreId != "store-baba" || m.Body != "※9月は月曜定休" {
		t.Errorf("memo = %+v", m)
	}
}

func TestParseAndResolve_ManagerColumnShiftsVenue(t *testing.T) {
	// Some sheets wedge a manager column before the venue.
	raw := "9/1\t月\t店長A\t馬場\t\t\t\t\t狂気山脈(19-22)\tソラ\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(res.Drafts))
	}
	if *res.Drafts[0].StoreId != "store-baba" {
		t.Errorf("store = %s", *res.Drafts[0].StoreId)
	}
}

func TestParseAndResolve_UnresolvedScenarioWarns(t *testing.T) {
	raw := "9/1\t月\t馬場\t\t\t\t\t未登録タイトル(19-22)\tソラ\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, want 1 (unresolved still imports)", len(res.Drafts))
	}
	d := res.Drafts[0]
	if d.Scenario != "未登録タイトル" || d.ScenarioId != nil {
		t.Errorf("unresolved draft keeps raw text: %q %v", d.Scenario, d.ScenarioId)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "未登録タイトル") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning naming the title, got %v", res.Warnings)
	}
}

func TestDropUnresolvedScenarios(t *testing.T) {
	raw := "9/1\t月\t馬場\t\t\t未登録タイトル(13-17)\tソラ\t貸・さきこさん(19-22)\tそら\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 2 {
		t.Fatalf("drafts = %d, want 2 before filtering", len(res.Drafts))
	}
	filtered := DropUnresolvedScenarios(res)
	if len(filtered.Drafts) != 1 {
		t.Fatalf("drafts = %d, want only the resolved one", len(filtered.Drafts))
	}
	if filtered.Drafts[0].Scenario != "裂き子さん" {
		t.Errorf("kept draft = %q", filtered.Drafts[0].Scenario)
	}
	found := false
	for _, w := range filtered.Warnings {
		if strings.Contains(w, "未登録タイトル") && strings.Contains(w, "skipped") {
			found = true
		}
	}
	if !found {
		t.Errorf("dropped draft should leave a warning, got %v", filtered.Warnings)
	}
}

func TestDropUnresolvedScenarios_KeepsMtg(t *testing.T) {
	raw := "9/1\t月\t馬場\t\t\t\t\tMTG(19-21)\tソラ\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(res.Drafts))
	}
	filtered := DropUnresolvedScenarios(res)
	if len(filtered.Drafts) != 1 {
		t.Errorf("meeting rows never name a catalog scenario and must survive")
	}
}

// Legend and header rows above the first date row carry nothing to import.
// They are skipped without warnings, pastes routinely start with them.
func TestParseAndResolve_RowsBeforeFirstDateAreSilentlySkipped(t *testing.T) {
	raw := "公演スケジュール\t\t\n\t曜日\t店舗\t午前\t\t午後\t\t夜\t\n9/1\t月\t馬場\t\t\t\t\t貸・さきこさん(19-22)\tそら\n"
	res := ParseAndResolve(raw, 2025, testVenues, testResolver())
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(res.Drafts))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("header rows must not warn, got %v", res.Warnings)
	}
}
