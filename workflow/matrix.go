package workflow

import (
	"github.com/madamisu/venue_backend/models"
)

// ConflictMatrix is the precomputed occupancy index for a set of candidate
// dates. It is rebuilt wholesale from current rows on every check, never
// patched incrementally, so it cannot drift from the database.
type ConflictMatrix struct {
	StoreDateSlot map[string]struct{} `json:"-"`
	StaffDateSlot map[string]struct{} `json:"-"`
}

// BuildConflictMatrix indexes schedule events and confirmed booking
// requests by store slot and by staff slot. Cancelled events and cancelled
// or rejected requests occupy nothing. Offsite events have no store and
// only occupy their staff.
func BuildConflictMatrix(events []*models.ScheduleEvent, bookings []*models.BookingRequest) *ConflictMatrix {
	m := &ConflictMatrix{
		StoreDateSlot: map[string]struct{}{},
		StaffDateSlot: map[string]struct{}{},
	}
	for _, e := range events {
		if e.IsCancelled {
			continue
		}
		slot := TimeSlotOf(e.StartTime)
		if key, ok := EventSlotKey(e); ok {
			m.StoreDateSlot[key] = struct{}{}
		}
		for _, gm := range e.GMs {
			m.StaffDateSlot[StaffSlotKey(gm, e.Date, slot)] = struct{}{}
		}
	}
	for _, b := range bookings {
		if b.IsCancelled() || b.ConfirmedDate == nil {
			continue
		}
		slot := TimeSlotOf(b.ConfirmedStart)
		if b.ConfirmedStoreId != nil && *b.ConfirmedStoreId != "" {
			m.StoreDateSlot[SlotKey(*b.ConfirmedDate, *b.ConfirmedStoreId, slot)] = struct{}{}
		}
		for _, staff := range b.ConfirmedStaff {
			m.StaffDateSlot[StaffSlotKey(staff, *b.ConfirmedDate, slot)] = struct{}{}
		}
	}
	return m
}

func (m *ConflictMatrix) IsStoreBusy(date, storeId string, slot TimeSlot) bool {
	_, busy := m.StoreDateSlot[SlotKey(date, storeId, slot)]
	return busy
}

func (m *ConflictMatrix) IsStaffBusy(staff, date string, slot TimeSlot) bool {
	_, busy := m.StaffDateSlot[StaffSlotKey(staff, date, slot)]
	return busy
}

// SlotAvailability is one candidate's verdict for the conflict endpoint.
type SlotAvailability struct {
	Date      string   `json:"date"`
	StoreId   string   `json:"store_id"`
	TimeSlot  TimeSlot `json:"time_slot"`
	StoreBusy bool     `json:"store_busy"`
	BusyStaff []string `json:"busy_staff,omitempty"`
	Available bool     `json:"available"`
}

// CheckCandidates evaluates each candidate slot of a booking request
// against the matrix for each store the requester would accept.
func (m *ConflictMatrix) CheckCandidates(candidates []models.CandidateSlot, storeIds []string, staff []string) []SlotAvailability {
	var out []SlotAvailability
	for _, c := range candidates {
		for _, storeId := range storeIds {
			entry := SlotAvailability{
				Date:     c.Date,
				StoreId:  storeId,
				TimeSlot: TimeSlot(c.TimeSlot),
			}
			entry.StoreBusy = m.IsStoreBusy(c.Date, storeId, entry.TimeSlot)
			for _, s := range staff {
				if m.IsStaffBusy(s, c.Date, entry.TimeSlot) {
					entry.BusyStaff = append(entry.BusyStaff, s)
				}
			}
			entry.Available = !entry.StoreBusy && len(entry.BusyStaff) == 0
			out = append(out, entry)
		}
	}
	return out
}
