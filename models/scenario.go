package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/utils"
	"gorm.io/gorm"
)

// Scenario is a catalog entry. Title is the matching target for imported
// free-text scenario names and is unique per organization.
type Scenario struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationId  string    `gorm:"index;size:36;not null" json:"organization_id"`
	Title           string    `gorm:"size:255;not null" json:"title" binding:"required"`
	Author          string    `gorm:"size:255" json:"author"`
	PlayerCountMin  int       `json:"player_count_min"`
	PlayerCountMax  int       `json:"player_count_max"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Scenario) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func AllScenarios(ctx context.Context) ([]*Scenario, error) {
	if _, ok := utils.GetOrganizationIdFromContext(ctx); !ok {
		return nil, utils.ErrorOrganizationRequired
	}
	var scenarios []*Scenario
	db := config.GetDB()
	if err := db.WithContext(ctx).Order("title").Find(&scenarios).Error; err != nil {
		return nil, err
	}
	return scenarios, nil
}
