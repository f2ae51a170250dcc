package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/madamisu/venue_backend/config"
	"gorm.io/gorm"
)

// reservationEventColumn is the foreign-key column pointing reservations at
// their schedule event. The cascade delete filters on it directly.
const reservationEventColumn = "schedule_event_id"

// Reservation is a customer booking against a schedule event. In replace
// mode these are the dependent rows that have to go before their events.
type Reservation struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationId  string    `gorm:"index;size:36;not null" json:"organization_id"`
	ScheduleEventId string    `gorm:"size:36;index;not null" json:"schedule_event_id"`
	CustomerName    string    `gorm:"size:100" json:"customer_name"`
	CustomerEmail   string    `gorm:"size:255" json:"customer_email"`
	PartySize       int       `json:"party_size"`
	Status          string    `gorm:"size:20;not null;default:confirmed" json:"status"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// deleteReservationsForEvents removes all reservations attached to the given
// events. Runs inside the cascade transaction, before the events themselves.
func deleteReservationsForEvents(tx *gorm.DB, eventIds []string) error {
	return tx.Where(reservationEventColumn+" IN ?", eventIds).Delete(&Reservation{}).Error
}

// CountReservationsForEvents reports how many reservations the deletion plan
// would take with it, for the operator-facing confirmation step.
func CountReservationsForEvents(ctx context.Context, eventIds []string) (int64, error) {
	if len(eventIds) == 0 {
		return 0, nil
	}
	var count int64
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&Reservation{}).
		Where("schedule_event_id IN ?", eventIds).
		Count(&count).Error
	return count, err
}
