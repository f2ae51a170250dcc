package workflow

import (
	"testing"

	"github.com/madamisu/venue_backend/models"
)

func TestBuildConflictMatrix_EventsOccupyStoreAndStaff(t *testing.T) {
	events := []*models.ScheduleEvent{
		{
			Date:      "2025-09-01",
			StoreId:   strPtr("store-baba"),
			GMs:       models.StringList{"ソラ"},
			StartTime: "19:00",
		},
	}
	m := BuildConflictMatrix(events, nil)
	if !m.IsStoreBusy("2025-09-01", "store-baba", SlotEvening) {
		t.Error("store should be busy in the evening slot")
	}
	if m.IsStoreBusy("2025-09-01", "store-baba", SlotAfternoon) {
		t.Error("other slots of the day stay free")
	}
	if !m.IsStaffBusy("ソラ", "2025-09-01", SlotEvening) {
		t.Error("assigned staff should be busy")
	}
	if m.IsStaffBusy("ミナト", "2025-09-01", SlotEvening) {
		t.Error("unassigned staff stays free")
	}
}

func TestBuildConflictMatrix_CancelledOccupiesNothing(t *testing.T) {
	events := []*models.ScheduleEvent{
		{
			Date:        "2025-09-01",
			StoreId:     strPtr("store-baba"),
			GMs:         models.StringList{"ソラ"},
			StartTime:   "19:00",
			IsCancelled: true,
		},
	}
	bookings := []*models.BookingRequest{
		{
			Status:           models.BookingStatusCancelled,
			ConfirmedDate:    strPtr("2025-09-01"),
			ConfirmedStoreId: strPtr("store-baba"),
			ConfirmedStaff:   models.StringList{"ソラ"},
			ConfirmedStart:   "13:00",
		},
	}
	m := BuildConflictMatrix(events, bookings)
	if len(m.StoreDateSlot) != 0 || len(m.StaffDateSlot) != 0 {
		t.Errorf("cancelled rows must not occupy: stores=%v staff=%v", m.StoreDateSlot, m.StaffDateSlot)
	}
}

func TestBuildConflictMatrix_OffsiteEventOccupiesStaffOnly(t *testing.T) {
	events := []*models.ScheduleEvent{
		{
			Date:      "2025-09-01",
			GMs:       models.StringList{"ソラ"},
			StartTime: "10:00",
			Category:  models.CategoryOffsite,
		},
	}
	m := BuildConflictMatrix(events, nil)
	if len(m.StoreDateSlot) != 0 {
		t.Errorf("offsite event occupies no store: %v", m.StoreDateSlot)
	}
	if !m.IsStaffBusy("ソラ", "2025-09-01", SlotMorning) {
		t.Error("offsite event still occupies its staff")
	}
}

func TestCheckCandidates(t *testing.T) {
	events := []*models.ScheduleEvent{
		{Date: "2025-09-01", StoreId: strPtr("store-baba"), StartTime: "19:00"},
	}
	bookings := []*models.BookingRequest{
		{
			Status:         models.BookingStatusConfirmed,
			ConfirmedDate:  strPtr("2025-09-02"),
			ConfirmedStaff: models.StringList{"ソラ"},
			ConfirmedStart: "19:00",
		},
	}
	m := BuildConflictMatrix(events, bookings)
	candidates := []models.CandidateSlot{
		{Date: "2025-09-01", TimeSlot: "evening"},
		{Date: "2025-09-02", TimeSlot: "evening"},
	}
	out := m.CheckCandidates(candidates, []string{"store-baba"}, []string{"ソラ"})
	if len(out) != 2 {
		t.Fatalf("entries = %d, want 2", len(out))
	}
	if out[0].Available || !out[0].StoreBusy {
		t.Errorf("first candidate hits the existing event: %+v", out[0])
	}
	if out[1].Available || len(out[1].BusyStaff) != 1 {
		t.Errorf("second candidate hits the staff booking: %+v", out[1])
	}
}
