package workflow

import (
	"strings"
	"testing"

	"github.com/madamisu/venue_backend/models"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func draftFor(date, storeId, start, title string) EventDraft {
	d := EventDraft{
		Date:      date,
		Venue:     "馬場",
		TimeSlot:  TimeSlotOf(start),
		RawTitle:  title,
		Scenario:  title,
		StartTime: start,
		EndTime:   "23:00",
		Category:  models.CategoryOpen,
		Fee:       decimal.Zero,
	}
	if storeId != "" {
		d.StoreId = strPtr(storeId)
	}
	return d
}

func TestPlan_FirstDraftWinsSlot(t *testing.T) {
	parsed := ParseResult{Drafts: []EventDraft{
		draftFor("2025-09-01", "store-baba", "19:00", "狂気山脈"),
		draftFor("2025-09-01", "store-baba", "19:30", "トレタリ"),
	}}
	plan := Plan(parsed, nil, nil, false)

	inserts, _, skips, _ := plan.Counts()
	if inserts != 1 || skips != 1 {
		t.Fatalf("inserts=%d skips=%d, want 1 and 1", inserts, skips)
	}
	skip, ok := plan.Actions[1].(SkipAction)
	if !ok {
		t.Fatalf("second action should be the skip, got %T", plan.Actions[1])
	}
	if !strings.Contains(skip.Reason, "狂気山脈") {
		t.Errorf("skip reason should name the winner: %q", skip.Reason)
	}
	warned := false
	for _, w := range plan.Warnings {
		if strings.Contains(w, "狂気山脈") && strings.Contains(w, "トレタリ") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("warning should name both titles: %v", plan.Warnings)
	}
}

func TestPlan_SameSlotBecomesUpdate(t *testing.T) {
	persisted := []models.ScheduleEvent{{
		ID:        "ev-1",
		Date:      "2025-09-01",
		StoreId:   strPtr("store-baba"),
		Scenario:  "狂気山脈",
		StartTime: "19:00",
		EndTime:   "22:00",
		Category:  models.CategoryOpen,
		Notes:     "既存メモ",
	}}
	// 19:30 still lands in the evening bucket, so this is the same slot.
	draft := draftFor("2025-09-01", "store-baba", "19:30", "トレタリ")
	draft.Notes = "新メモ"
	plan := Plan(ParseResult{Drafts: []EventDraft{draft}}, persisted, nil, false)

	if len(plan.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(plan.Actions))
	}
	up, ok := plan.Actions[0].(UpdateAction)
	if !ok {
		t.Fatalf("want UpdateAction, got %T", plan.Actions[0])
	}
	if up.EventId != "ev-1" {
		t.Errorf("event id = %s", up.EventId)
	}
	if up.Notes != "既存メモ\n新メモ" {
		t.Errorf("merged notes = %q, want persisted text first", up.Notes)
	}
	if len(plan.DeleteEventIds) != 0 {
		t.Errorf("non-replace plan must not delete")
	}
}

// NOTE: operators hand-fill GM names and scenario links on rows the sheet
// left blank. A re-import of the same sheet must not wipe those values back
// to empty.
func TestPlan_UpdateKeepsPersistedFieldsWhenDraftIsBlank(t *testing.T) {
	persisted := []models.ScheduleEvent{{
		ID:             "ev-1",
		OrganizationId: "org-1",
		Date:           "2025-09-01",
		Venue:          "馬場",
		StoreId:        strPtr("store-baba"),
		Scenario:       "狂気山脈",
		ScenarioId:     strPtr("sc-2"),
		GMs:            models.StringList{"ソラ"},
		StartTime:      "19:00",
		EndTime:        "22:00",
		Category:       models.CategoryOpen,
		Fee:            decimal.NewFromInt(4500),
	}}
	draft := draftFor("2025-09-01", "store-baba", "19:00", "狂気山脈")
	draft.EndTime = "23:00" // changed so the draft is not skipped as unchanged
	// GM cell empty, scenario unresolved, no fee on this import.
	plan := Plan(ParseResult{Drafts: []EventDraft{draft}}, persisted, nil, false)

	up, ok := plan.Actions[0].(UpdateAction)
	if !ok {
		t.Fatalf("want UpdateAction, got %T", plan.Actions[0])
	}
	merged := up.MergedEvent("org-1")
	if len(merged.GMs) != 1 || merged.GMs[0] != "ソラ" {
		t.Errorf("empty GM cell must keep persisted staff, got %v", merged.GMs)
	}
	if merged.ScenarioId == nil || *merged.ScenarioId != "sc-2" {
		t.Errorf("unresolved draft must keep persisted scenario id, got %v", merged.ScenarioId)
	}
	if !merged.Fee.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("zero draft fee must keep persisted fee, got %s", merged.Fee)
	}
	if merged.EndTime != "23:00" {
		t.Errorf("draft end time should win, got %s", merged.EndTime)
	}
}

func TestPlan_UnchangedDraftIsSkipped(t *testing.T) {
	persisted := []models.ScheduleEvent{{
		ID:        "ev-1",
		Date:      "2025-09-01",
		StoreId:   strPtr("store-baba"),
		Scenario:  "狂気山脈",
		StartTime: "19:00",
		EndTime:   "23:00",
		Category:  models.CategoryOpen,
	}}
	draft := draftFor("2025-09-01", "store-baba", "19:00", "狂気山脈")
	plan := Plan(ParseResult{Drafts: []EventDraft{draft}}, persisted, nil, false)

	skip, ok := plan.Actions[0].(SkipAction)
	if !ok || skip.Reason != "unchanged" {
		t.Fatalf("want unchanged skip, got %#v", plan.Actions[0])
	}
}

func TestPlan_ReplaceDeletesWholeMonth(t *testing.T) {
	persisted := []models.ScheduleEvent{
		{ID: "ev-1", Date: "2025-09-01", StoreId: strPtr("store-baba"), StartTime: "19:00"},
		{ID: "ev-2", Date: "2025-09-20", StoreId: strPtr("store-takada"), StartTime: "13:00"},
	}
	draft := draftFor("2025-09-01", "store-baba", "19:00", "狂気山脈")
	plan := Plan(ParseResult{Drafts: []EventDraft{draft}}, persisted, nil, true)

	if len(plan.DeleteEventIds) != 2 {
		t.Fatalf("delete ids = %v, want both persisted events", plan.DeleteEventIds)
	}
	inserts, updates, _, _ := plan.Counts()
	if inserts != 1 || updates != 0 {
		t.Errorf("replace mode plans inserts only, got inserts=%d updates=%d", inserts, updates)
	}
	if len(plan.Months) != 1 || plan.Months[0] != "2025-09" {
		t.Errorf("months = %v", plan.Months)
	}
}

func TestPlan_OffsiteDraftsAlwaysInsert(t *testing.T) {
	drafts := []EventDraft{
		draftFor("2025-09-01", "", "19:00", "ナナイロ"),
		draftFor("2025-09-01", "", "19:00", "ナナイロ 橙"),
	}
	plan := Plan(ParseResult{Drafts: drafts}, nil, nil, false)
	inserts, _, skips, _ := plan.Counts()
	if inserts != 2 || skips != 0 {
		t.Errorf("offsite drafts occupy no slot, got inserts=%d skips=%d", inserts, skips)
	}
}

func TestPlan_MemoMergesPersistedFirst(t *testing.T) {
	persistedMemos := []models.DayMemo{{Date: "2025-09-01", StoreId: "store-baba", Body: "旧メモ"}}
	parsed := ParseResult{Memos: []MemoDraft{
		{Date: "2025-09-01", StoreId: "store-baba", Venue: "馬場", Body: "新メモ"},
		{Date: "2025-09-01", StoreId: "store-baba", Venue: "馬場", Body: "旧メモ"}, // already present
	}}
	plan := Plan(parsed, nil, persistedMemos, false)

	var memoActions []MemoAction
	for _, a := range plan.Actions {
		if m, ok := a.(MemoAction); ok {
			memoActions = append(memoActions, m)
		}
	}
	if len(memoActions) != 1 {
		t.Fatalf("memo actions = %d, want 1 (duplicate body dropped)", len(memoActions))
	}
	if memoActions[0].Body != "旧メモ\n新メモ" {
		t.Errorf("merged body = %q", memoActions[0].Body)
	}
}

func TestPlan_DistinctMemosOnSameDayUpsertOnce(t *testing.T) {
	parsed := ParseResult{Memos: []MemoDraft{
		{Date: "2025-09-01", StoreId: "store-baba", Venue: "馬場", Body: "清掃あり"},
		{Date: "2025-09-01", StoreId: "store-baba", Venue: "馬場", Body: "鍵は受付"},
	}}
	plan := Plan(parsed, nil, nil, false)

	var memoActions []MemoAction
	for _, a := range plan.Actions {
		if m, ok := a.(MemoAction); ok {
			memoActions = append(memoActions, m)
		}
	}
	if len(memoActions) != 1 {
		t.Fatalf("memo actions = %d, want one upsert per day and store", len(memoActions))
	}
	if memoActions[0].Body != "清掃あり\n鍵は受付" {
		t.Errorf("merged body = %q", memoActions[0].Body)
	}
}
