package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/madamisu/venue_backend/models"
)

// PlanAction is the tagged union of reconciliation outcomes. Planning is
// pure: it reads drafts and persisted rows and decides, it never touches
// the database.
type PlanAction interface {
	planAction()
}

// InsertAction creates a new event row.
type InsertAction struct {
	Draft EventDraft
}

// UpdateAction rewrites an existing row in the same slot. Existing is the
// persisted row the draft matched; blank draft fields keep its values. Notes
// carries the merged value, persisted text first.
type UpdateAction struct {
	EventId  string
	Draft    EventDraft
	Existing models.ScheduleEvent
	Notes    string
}

// SkipAction records why a draft produced no write.
type SkipAction struct {
	Draft  EventDraft
	Reason string
}

// MemoAction upserts a day memo. Body carries the merged value.
type MemoAction struct {
	Memo MemoDraft
	Body string
}

func (InsertAction) planAction() {}
func (UpdateAction) planAction() {}
func (SkipAction) planAction()   {}
func (MemoAction) planAction()   {}

// ReconciliationPlan is what Execute runs and what the preview endpoint
// renders back to the operator.
type ReconciliationPlan struct {
	Actions        []PlanAction
	DeleteEventIds []string
	Months         []string
	Warnings       []string
}

func (p *ReconciliationPlan) Counts() (inserts, updates, skips, memos int) {
	for _, a := range p.Actions {
		switch a.(type) {
		case InsertAction:
			inserts++
		case UpdateAction:
			updates++
		case SkipAction:
			skips++
		case MemoAction:
			memos++
		}
	}
	return
}

// Plan reconciles one parse result against the persisted month. In replace
// mode every persisted event goes on the deletion list and every draft
// becomes an insert; otherwise drafts match persisted rows by slot key and
// turn into updates. Within the batch the first draft wins a slot key, later
// ones are skipped so a plan never writes the same slot twice.
func Plan(parsed ParseResult, persisted []models.ScheduleEvent, persistedMemos []models.DayMemo, replaceExisting bool) ReconciliationPlan {
	plan := ReconciliationPlan{
		Warnings: append([]string{}, parsed.Warnings...),
		Months:   monthsOf(parsed.Drafts),
	}

	existingBySlot := map[string]*models.ScheduleEvent{}
	if replaceExisting {
		for _, e := range persisted {
			plan.DeleteEventIds = append(plan.DeleteEventIds, e.ID)
		}
	} else {
		for i := range persisted {
			if key, ok := EventSlotKey(&persisted[i]); ok {
				existingBySlot[key] = &persisted[i]
			}
		}
	}

	seen := map[string]string{}
	for _, draft := range parsed.Drafts {
		key, keyed := draftSlotKey(draft)
		if keyed {
			if firstTitle, dup := seen[key]; dup {
				plan.Actions = append(plan.Actions, SkipAction{
					Draft:  draft,
					Reason: fmt.Sprintf("slot already taken in this batch by %q", firstTitle),
				})
				plan.Warnings = append(plan.Warnings,
					fmt.Sprintf("%s %s %s: %q dropped, %q came first", draft.Date, draft.Venue, draft.TimeSlot, draft.RawTitle, firstTitle))
				continue
			}
			seen[key] = draft.RawTitle
		}

		existing := existingBySlot[key]
		if !keyed || existing == nil {
			plan.Actions = append(plan.Actions, InsertAction{Draft: draft})
			continue
		}
		action := UpdateAction{EventId: existing.ID, Draft: draft, Existing: *existing, Notes: MergeNotes(existing.Notes, draft.Notes)}
		if merged := action.MergedEvent(existing.OrganizationId); eventUnchanged(existing, merged) {
			plan.Actions = append(plan.Actions, SkipAction{Draft: draft, Reason: "unchanged"})
			continue
		}
		plan.Actions = append(plan.Actions, action)
	}

	persistedBodies := map[string]string{}
	for _, m := range persistedMemos {
		persistedBodies[m.Date+"|"+m.StoreId] = m.Body
	}
	mergedBodies := map[string]string{}
	firstMemo := map[string]MemoDraft{}
	var memoKeys []string
	for _, memo := range parsed.Memos {
		key := memo.Date + "|" + memo.StoreId
		if _, ok := mergedBodies[key]; !ok {
			mergedBodies[key] = persistedBodies[key]
			firstMemo[key] = memo
			memoKeys = append(memoKeys, key)
		}
		mergedBodies[key] = MergeNotes(mergedBodies[key], memo.Body)
	}
	// One upsert per day and store, whatever the sheet scattered across cells.
	for _, key := range memoKeys {
		body := mergedBodies[key]
		if body == persistedBodies[key] && body != "" {
			continue
		}
		plan.Actions = append(plan.Actions, MemoAction{Memo: firstMemo[key], Body: body})
	}

	return plan
}

func draftSlotKey(d EventDraft) (string, bool) {
	if d.StoreId == nil || *d.StoreId == "" {
		return "", false
	}
	return SlotKey(d.Date, *d.StoreId, d.TimeSlot), true
}

// MergeNotes joins persisted and incoming notes, persisted text first.
// Incoming text already present verbatim is not appended again.
func MergeNotes(existing, incoming string) string {
	existing = strings.TrimSpace(existing)
	incoming = strings.TrimSpace(incoming)
	switch {
	case incoming == "":
		return existing
	case existing == "":
		return incoming
	case strings.Contains(existing, incoming):
		return existing
	default:
		return existing + "\n" + incoming
	}
}

func eventUnchanged(e *models.ScheduleEvent, merged models.ScheduleEvent) bool {
	return e.Scenario == merged.Scenario &&
		equalStringPtr(e.ScenarioId, merged.ScenarioId) &&
		equalStrings(e.GMs, merged.GMs) &&
		e.StartTime == merged.StartTime &&
		e.EndTime == merged.EndTime &&
		e.Category == merged.Category &&
		e.Fee.Equal(merged.Fee) &&
		e.ReservationInfo == merged.ReservationInfo &&
		e.Notes == merged.Notes &&
		e.IsCancelled == merged.IsCancelled
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalStrings(a, b models.StringList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func monthsOf(drafts []EventDraft) []string {
	set := map[string]struct{}{}
	for _, d := range drafts {
		if len(d.Date) >= 7 {
			set[d.Date[:7]] = struct{}{}
		}
	}
	months := make([]string, 0, len(set))
	for m := range set {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// NewEventFromDraft builds the row an InsertAction persists. The caller sets
// OrganizationId, the tenant guard checks it on the way in.
func NewEventFromDraft(d EventDraft, organizationId string) models.ScheduleEvent {
	return models.ScheduleEvent{
		OrganizationId:  organizationId,
		Date:            d.Date,
		Venue:           d.Venue,
		StoreId:         d.StoreId,
		Scenario:        d.Scenario,
		ScenarioId:      d.ScenarioId,
		GMs:             models.StringList(d.GMs),
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		Category:        d.Category,
		Fee:             d.Fee,
		ReservationInfo: d.ReservationInfo,
		Notes:           d.Notes,
		IsCancelled:     d.IsCancelled,
	}
}

// MergedEvent builds the row an UpdateAction persists. It starts from the
// persisted row and lets the draft override only what the sheet actually
// carried, so a cell with no GM names or an unresolved scenario does not
// wipe values an operator already fixed up.
func (a UpdateAction) MergedEvent(organizationId string) models.ScheduleEvent {
	event := a.Existing
	event.ID = a.EventId
	event.OrganizationId = organizationId
	d := a.Draft
	event.Date = d.Date
	event.Venue = d.Venue
	event.StoreId = d.StoreId
	if d.Scenario != "" {
		event.Scenario = d.Scenario
	}
	if d.ScenarioId != nil {
		event.ScenarioId = d.ScenarioId
	}
	if len(d.GMs) > 0 {
		event.GMs = models.StringList(d.GMs)
	}
	if d.StartTime != "" {
		event.StartTime = d.StartTime
	}
	if d.EndTime != "" {
		event.EndTime = d.EndTime
	}
	if d.Category != "" {
		event.Category = d.Category
	}
	if !d.Fee.IsZero() {
		event.Fee = d.Fee
	}
	if d.ReservationInfo != "" {
		event.ReservationInfo = d.ReservationInfo
	}
	event.Notes = a.Notes
	event.IsCancelled = d.IsCancelled
	return event
}
