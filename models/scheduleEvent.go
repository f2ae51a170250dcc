package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Event categories, matching the prefixes used in source sheets.
const (
	CategoryOpen     = "open"     // 募・
	CategoryPrivate  = "private"  // 貸・
	CategoryGmTest   = "gmtest"   // GMテスト
	CategoryTestplay = "testplay" // テストプレイ / テスプ
	CategoryOffsite  = "offsite"  // 出張・
	CategoryMtg      = "mtg"
)

// ScheduleEvent is one calendar slot occupant. Occupancy uniqueness is by
// convention over (date, store, time slot); there is no database constraint,
// the reconciliation planner is what keeps double-bookings out.
type ScheduleEvent struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	OrganizationId string          `gorm:"index;size:36;not null" json:"organization_id"`
	Date           string          `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	Venue          string          `gorm:"size:100" json:"venue"`              // display name as imported
	StoreId        *string         `gorm:"size:36;index" json:"store_id"`     // nil for offsite events
	Scenario       string          `gorm:"size:255" json:"scenario"`
	ScenarioId     *string         `gorm:"size:36;index" json:"scenario_id"` // nil while unresolved
	GMs            StringList      `gorm:"column:gms;type:json" json:"gms"`
	StartTime      string          `gorm:"size:8" json:"start_time"` // HH:MM
	EndTime        string          `gorm:"size:8" json:"end_time"`
	Category       string          `gorm:"size:30;not null;default:open" json:"category"`
	Fee            decimal.Decimal `gorm:"type:decimal(10,0)" json:"fee"`
	ReservationInfo string         `gorm:"type:text" json:"reservation_info"`
	Notes          string          `gorm:"type:text" json:"notes"`
	IsCancelled    bool            `gorm:"not null;default:false" json:"is_cancelled"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *ScheduleEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EventsForDateRange returns all persisted events with from <= date <= to.
// Dates are ISO strings so lexical comparison is correct.
func EventsForDateRange(ctx context.Context, from, to string) ([]*ScheduleEvent, error) {
	if _, ok := utils.GetOrganizationIdFromContext(ctx); !ok {
		return nil, utils.ErrorOrganizationRequired
	}
	var events []*ScheduleEvent
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date, start_time").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// MonthRange returns the first and last date of a month as ISO strings.
func MonthRange(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

// EventsForMonth returns all persisted events in the given month.
func EventsForMonth(ctx context.Context, year int, month time.Month) ([]*ScheduleEvent, error) {
	from, to := MonthRange(year, month)
	return EventsForDateRange(ctx, from, to)
}

// EventsForDates returns non-cancelled events on any of the given dates,
// the persisted-event source for the conflict matrix.
func EventsForDates(ctx context.Context, dates []string) ([]*ScheduleEvent, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	if _, ok := utils.GetOrganizationIdFromContext(ctx); !ok {
		return nil, utils.ErrorOrganizationRequired
	}
	var events []*ScheduleEvent
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("date IN ? AND is_cancelled = ?", dates, false).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// InsertEvents creates the slice in one batch (caller bounds the size).
func InsertEvents(ctx context.Context, events []*ScheduleEvent) error {
	if len(events) == 0 {
		return nil
	}
	db := config.GetDB()
	return db.WithContext(ctx).Create(&events).Error
}

// UpdateEvent writes the merged record by id. Full-record save keeps the
// merge semantics in the planner, not spread over field lists here.
func UpdateEvent(ctx context.Context, event *ScheduleEvent) error {
	if event.ID == "" {
		return fmt.Errorf("update event: missing id")
	}
	db := config.GetDB()
	return db.WithContext(ctx).Model(&ScheduleEvent{}).
		Where("id = ?", event.ID).
		Updates(map[string]any{
			"venue":            event.Venue,
			"store_id":         event.StoreId,
			"scenario":         event.Scenario,
			"scenario_id":      event.ScenarioId,
			"gms":              event.GMs,
			"start_time":       event.StartTime,
			"end_time":         event.EndTime,
			"category":         event.Category,
			"fee":              event.Fee,
			"reservation_info": event.ReservationInfo,
			"notes":            event.Notes,
			"is_cancelled":     event.IsCancelled,
		}).Error
}

func deleteEventsByIds(tx *gorm.DB, ids []string) error {
	return tx.Where("id IN ?", ids).Delete(&ScheduleEvent{}).Error
}

// DeleteEventsCascade removes events and their reservations in one
// transaction, reservations first. Either both sets go or neither does.
func DeleteEventsCascade(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteReservationsForEvents(tx, ids); err != nil {
			return err
		}
		return deleteEventsByIds(tx, ids)
	})
}
