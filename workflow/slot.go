package workflow

import (
	"strconv"
	"strings"

	"github.com/madamisu/venue_backend/models"
)

// TimeSlot is the coarse occupancy bucket of a calendar day. A store slot
// holds at most one active event.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// TimeSlotOf buckets a HH:MM start time: before 12:00 morning, 12:00-17:59
// afternoon, 18:00 and later evening. Every caller (parser, planner,
// conflict matrix) goes through this one function, so the boundary cannot
// drift between features.
func TimeSlotOf(startTime string) TimeSlot {
	h := startHour(startTime)
	switch {
	case h < 12:
		return SlotMorning
	case h < 18:
		return SlotAfternoon
	default:
		return SlotEvening
	}
}

func startHour(startTime string) int {
	head, _, _ := strings.Cut(startTime, ":")
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0
	}
	return h
}

// SlotKey is the canonical occupancy identity (date, store, time slot).
// The store component is the stable store id, never a display name: the same
// physical venue appears in source text under several spellings.
func SlotKey(date, storeId string, slot TimeSlot) string {
	return date + "|" + storeId + "|" + string(slot)
}

// StaffSlotKey is the staff-side occupancy identity used by the conflict
// matrix.
func StaffSlotKey(staffId, date string, slot TimeSlot) string {
	return staffId + "|" + date + "|" + string(slot)
}

// EventSlotKey computes the slot key of a persisted event. Events without a
// store id (offsite runs) occupy nothing; the second return is false.
func EventSlotKey(e *models.ScheduleEvent) (string, bool) {
	if e.StoreId == nil || *e.StoreId == "" {
		return "", false
	}
	return SlotKey(e.Date, *e.StoreId, TimeSlotOf(e.StartTime)), true
}

// Conflicts reports whether two events collide: equal slot keys and neither
// cancelled. A cancelled event never blocks a slot.
func Conflicts(a, b *models.ScheduleEvent) bool {
	if a.IsCancelled || b.IsCancelled {
		return false
	}
	ka, aok := EventSlotKey(a)
	kb, bok := EventSlotKey(b)
	return aok && bok && ka == kb
}
