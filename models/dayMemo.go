package models

import (
	"context"
	"time"

	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/utils"
	"gorm.io/gorm/clause"
)

// DayMemo is the free-text note attached to a (date, store) pair. Memo cells
// from an import land here instead of the event table.
type DayMemo struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	OrganizationId string    `gorm:"size:36;not null;uniqueIndex:uq_day_memo,priority:1" json:"organization_id"`
	Date           string    `gorm:"size:10;not null;uniqueIndex:uq_day_memo,priority:2" json:"date"`
	StoreId        string    `gorm:"size:36;not null;uniqueIndex:uq_day_memo,priority:3" json:"store_id"`
	Body           string    `gorm:"type:text" json:"body"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UpsertDayMemo writes the memo by natural key, replacing any previous body.
// Concatenation of multiple memo drafts for one key happens in the planner,
// within a single run; across runs the latest import wins.
func UpsertDayMemo(ctx context.Context, date, storeId, body string) error {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return utils.ErrorOrganizationRequired
	}
	memo := DayMemo{
		OrganizationId: organizationId,
		Date:           date,
		StoreId:        storeId,
		Body:           body,
	}
	db := config.GetDB()
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "organization_id"}, {Name: "date"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&memo).Error
}

// MemosForDateRange returns memos for the schedule table view.
func MemosForDateRange(ctx context.Context, from, to string) ([]*DayMemo, error) {
	if _, ok := utils.GetOrganizationIdFromContext(ctx); !ok {
		return nil, utils.ErrorOrganizationRequired
	}
	var memos []*DayMemo
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date, store_id").
		Find(&memos).Error
	if err != nil {
		return nil, err
	}
	return memos, nil
}
