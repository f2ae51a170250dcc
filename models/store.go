package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/utils"
	"gorm.io/gorm"
)

// Store is a physical venue. The same store shows up in pasted schedule
// text under several display-name spellings; the import config maps those
// back to the stable id.
type Store struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationId string    `gorm:"index;size:36;not null" json:"organization_id"`
	Name           string    `gorm:"size:100;not null" json:"name" binding:"required"`
	ShortName      string    `gorm:"size:50" json:"short_name"`
	Address        string    `gorm:"type:text" json:"address"`
	Capacity       int       `json:"capacity"`
	IsActive       *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func AllStores(ctx context.Context) ([]*Store, error) {
	if _, ok := utils.GetOrganizationIdFromContext(ctx); !ok {
		return nil, utils.ErrorOrganizationRequired
	}
	var stores []*Store
	db := config.GetDB()
	if err := db.WithContext(ctx).Order("name").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func GetStore(ctx context.Context, id string) (*Store, error) {
	var store Store
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &store, nil
}
