package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/utils"
	"gorm.io/gorm"
)

// Staff is a game-master roster entry. Name is the matching target for
// imported assignee text and is unique per organization.
type Staff struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationId string    `gorm:"index;size:36;not null" json:"organization_id"`
	Name           string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Status         string    `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func AllStaff(ctx context.Context) ([]*Staff, error) {
	if _, ok := utils.GetOrganizationIdFromContext(ctx); !ok {
		return nil, utils.ErrorOrganizationRequired
	}
	var staff []*Staff
	db := config.GetDB()
	if err := db.WithContext(ctx).Order("name").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}
