package models

import (
	"github.com/madamisu/venue_backend/config"
)

// MigrateTable runs AutoMigrate for every model. DDL can block busy tables,
// callers may skip this on startup and run it as a separate job.
func MigrateTable() {
	db := config.GetDB()
	logger := config.GetLogger()
	err := db.AutoMigrate(
		&Store{},
		&Scenario{},
		&Staff{},
		&ScheduleEvent{},
		&Reservation{},
		&DayMemo{},
		&BookingRequest{},
	)
	if err != nil {
		config.LogError(logger, "models", "MigrateTable", "AutoMigrate", nil, err)
		return
	}
	logger.Info("table migration complete")
}
