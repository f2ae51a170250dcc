// seed-demo populates a fresh database with a demo organization: stores,
// a handful of catalog scenarios, staff, and one sample month of events.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... ... go run ./cmd/seed-demo -org demo-org
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/models"
	"github.com/madamisu/venue_backend/utils"
)

func main() {
	org := flag.String("org", "demo-org", "organization id to seed")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	ctx := utils.SetOrganizationIdInContext(context.Background(), *org)
	ctx = utils.SetUserNameInContext(ctx, "seed-demo")

	active := true
	stores := []*models.Store{
		{OrganizationId: *org, Name: "高田馬場店", ShortName: "馬場", Capacity: 8, IsActive: &active},
		{OrganizationId: *org, Name: "神保町店", ShortName: "神保町", Capacity: 6, IsActive: &active},
	}
	for _, s := range stores {
		if err := db.WithContext(ctx).Where("organization_id = ? AND name = ?", *org, s.Name).
			FirstOrCreate(s).Error; err != nil {
			fmt.Fprintf(os.Stderr, "seed store %s: %v\n", s.Name, err)
			os.Exit(1)
		}
	}

	scenarios := []*models.Scenario{
		{OrganizationId: *org, Title: "裂き子さん", PlayerCountMin: 5, PlayerCountMax: 5, DurationMinutes: 180},
		{OrganizationId: *org, Title: "狂気山脈　陰謀の分水嶺（１）", PlayerCountMin: 4, PlayerCountMax: 4, DurationMinutes: 240},
		{OrganizationId: *org, Title: "超特急の呪いの館で撮れ高足りてますか？", PlayerCountMin: 6, PlayerCountMax: 6, DurationMinutes: 210},
		{OrganizationId: *org, Title: "赤鬼が泣いた夜", PlayerCountMin: 5, PlayerCountMax: 6, DurationMinutes: 180},
	}
	for _, s := range scenarios {
		if err := db.WithContext(ctx).Where("organization_id = ? AND title = ?", *org, s.Title).
			FirstOrCreate(s).Error; err != nil {
			fmt.Fprintf(os.Stderr, "seed scenario %s: %v\n", s.Title, err)
			os.Exit(1)
		}
	}

	staff := []*models.Staff{
		{OrganizationId: *org, Name: "ソラ", Status: "active"},
		{OrganizationId: *org, Name: "ミナト", Status: "active"},
		{OrganizationId: *org, Name: "ユズ", Status: "active"},
	}
	for _, s := range staff {
		if err := db.WithContext(ctx).Where("organization_id = ? AND name = ?", *org, s.Name).
			FirstOrCreate(s).Error; err != nil {
			fmt.Fprintf(os.Stderr, "seed staff %s: %v\n", s.Name, err)
			os.Exit(1)
		}
	}

	babaId := stores[0].ID
	events := []*models.ScheduleEvent{
		{
			OrganizationId: *org, Date: "2025-09-06", Venue: "馬場", StoreId: &babaId,
			Scenario: scenarios[0].Title, ScenarioId: &scenarios[0].ID,
			GMs: models.StringList{"ソラ"}, StartTime: "14:00", EndTime: "18:00",
			Category: models.CategoryOpen,
		},
		{
			OrganizationId: *org, Date: "2025-09-06", Venue: "馬場", StoreId: &babaId,
			Scenario: scenarios[1].Title, ScenarioId: &scenarios[1].ID,
			GMs: models.StringList{"ミナト"}, StartTime: "19:00", EndTime: "23:00",
			Category: models.CategoryPrivate,
		},
	}
	if err := models.InsertEvents(ctx, events); err != nil {
		fmt.Fprintf(os.Stderr, "seed events: %v\n", err)
		os.Exit(1)
	}

	if err := models.InvalidateCatalogCache(*org); err != nil {
		fmt.Fprintf(os.Stderr, "invalidate catalog cache: %v\n", err)
	}
	fmt.Printf("seeded organization %s: %d stores, %d scenarios, %d staff, %d events\n",
		*org, len(stores), len(scenarios), len(staff), len(events))
}
