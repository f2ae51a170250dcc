package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/utils"
	"github.com/ttacon/libphonenumber"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
)

// CandidateSlot is one guest-proposed date/time option on a private-booking
// request.
type CandidateSlot struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	TimeSlot  string `json:"time_slot"`  // morning / afternoon / evening
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`
}

type CandidateList []CandidateSlot

func (l CandidateList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]CandidateSlot(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *CandidateList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CandidateList", value)
	}
	var out []CandidateSlot
	if err := json.Unmarshal(raw, &out); err != nil {
		return errors.New("invalid JSON in CandidateList column: " + err.Error())
	}
	*l = out
	return nil
}

// BookingRequest is a guest-submitted private-booking request. Once
// confirmed it occupies a slot like any calendar event, which is why it is
// the second source feeding the conflict matrix.
type BookingRequest struct {
	ID               string        `gorm:"primaryKey;size:36" json:"id"`
	OrganizationId   string        `gorm:"index;size:36;not null" json:"organization_id"`
	CustomerName     string        `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail    string        `gorm:"size:255" json:"customer_email"`
	CustomerPhone    string        `gorm:"size:30" json:"customer_phone"`
	ScenarioId       *string       `gorm:"size:36;index" json:"scenario_id"`
	PartySize        int           `json:"party_size"`
	Candidates       CandidateList `gorm:"type:json" json:"candidates"`
	RequestedStores  StringList    `gorm:"type:json" json:"requested_stores"`
	Status           string        `gorm:"size:20;not null;default:pending" json:"status"`
	ConfirmedDate    *string       `gorm:"size:10" json:"confirmed_date"`
	ConfirmedStoreId *string       `gorm:"size:36" json:"confirmed_store_id"`
	ConfirmedStaff   StringList    `gorm:"type:json" json:"confirmed_staff"` // display names, same keying as event GM lists
	ConfirmedStart   string        `gorm:"size:8" json:"confirmed_start"`
	ConfirmedEnd     string        `gorm:"size:8" json:"confirmed_end"`
	Notes            string        `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *BookingRequest) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// IsCancelled reports whether the request no longer occupies anything.
func (b *BookingRequest) IsCancelled() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusRejected
}

type NewBookingRequest struct {
	CustomerName    string        `json:"customer_name" binding:"required"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone"`
	ScenarioId      *string       `json:"scenario_id"`
	PartySize       int           `json:"party_size" binding:"required,min=1"`
	Candidates      CandidateList `json:"candidates" binding:"required,min=1"`
	RequestedStores StringList    `json:"requested_stores"`
	Notes           string        `json:"notes"`
}

func (input *NewBookingRequest) validate() error {
	if input.CustomerPhone != "" {
		p, err := libphonenumber.Parse(input.CustomerPhone, "JP")
		if err != nil {
			return fmt.Errorf("invalid phone number: %w", err)
		}
		if !libphonenumber.IsValidNumber(p) {
			return errors.New("phone number is not valid")
		}
	}
	for _, c := range input.Candidates {
		if c.Date == "" || c.StartTime == "" || c.EndTime == "" {
			return errors.New("candidate slots need date, start_time and end_time")
		}
	}
	return nil
}

func CreateBookingRequest(ctx context.Context, input *NewBookingRequest) (*BookingRequest, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, utils.ErrorOrganizationRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	request := BookingRequest{
		OrganizationId:  organizationId,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ScenarioId:      input.ScenarioId,
		PartySize:       input.PartySize,
		Candidates:      input.Candidates,
		RequestedStores: input.RequestedStores,
		Status:          BookingStatusPending,
		Notes:           input.Notes,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func GetBookingRequest(ctx context.Context, id string) (*BookingRequest, error) {
	var request BookingRequest
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &request, nil
}

// ConfirmedBookingsForDates returns confirmed requests whose confirmed date
// is one of the given dates, the ad-hoc source for the conflict matrix.
func ConfirmedBookingsForDates(ctx context.Context, dates []string) ([]*BookingRequest, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	if _, ok := utils.GetOrganizationIdFromContext(ctx); !ok {
		return nil, utils.ErrorOrganizationRequired
	}
	var requests []*BookingRequest
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("status = ? AND confirmed_date IN ?", BookingStatusConfirmed, dates).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
