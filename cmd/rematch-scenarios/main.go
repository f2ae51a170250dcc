// rematch-scenarios re-resolves persisted events whose scenario text never
// matched a catalog entry. Run it after registering new scenarios or adding
// alias entries, so past imports pick up the ids without re-importing.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... ... go run ./cmd/rematch-scenarios -org <organization-id> -from 2023-01-01 -to 2025-12-31
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/models"
	"github.com/madamisu/venue_backend/utils"
	"github.com/madamisu/venue_backend/workflow"
)

func main() {
	org := flag.String("org", "", "organization id (required)")
	from := flag.String("from", "", "first date, YYYY-MM-DD (required)")
	to := flag.String("to", "", "last date, YYYY-MM-DD (required)")
	dryRun := flag.Bool("dry-run", false, "report matches, write nothing")
	flag.Parse()

	if *org == "" || *from == "" || *to == "" {
		flag.Usage()
		os.Exit(2)
	}

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	ctx := utils.SetOrganizationIdInContext(context.Background(), *org)
	ctx = utils.SetUserNameInContext(ctx, "rematch-scenarios")

	cfg, err := config.GetImportConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "import config: %v\n", err)
		os.Exit(1)
	}
	catalog, err := models.LoadCatalog(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load catalog: %v\n", err)
		os.Exit(1)
	}
	resolver := workflow.NewEntityResolver(catalog, workflow.ResolverConfig{
		ScenarioAliases: cfg.ScenarioAliases,
		StaffAliases:    cfg.StaffAliases,
	})

	events, err := models.EventsForDateRange(ctx, *from, *to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load events: %v\n", err)
		os.Exit(1)
	}

	started := time.Now()
	scanned, matched, failed := 0, 0, 0
	for _, event := range events {
		if event.ScenarioId != nil || event.Scenario == "" {
			continue
		}
		scanned++
		hit := resolver.ResolveScenario(event.Scenario)
		if hit == nil {
			continue
		}
		fmt.Printf("%s %s: %q -> %q\n", event.Date, event.Venue, event.Scenario, hit.Title)
		if *dryRun {
			matched++
			continue
		}
		id := hit.ID
		event.ScenarioId = &id
		event.Scenario = hit.Title
		if err := models.UpdateEvent(ctx, event); err != nil {
			fmt.Fprintf(os.Stderr, "update %s: %v\n", event.ID, err)
			failed++
			continue
		}
		matched++
	}

	fmt.Printf("scanned %d unmatched events, matched %d, failed %d in %s\n",
		scanned, matched, failed, time.Since(started).Round(time.Millisecond))
	if failed > 0 {
		os.Exit(1)
	}
}
