// schedule-import imports a pasted or exported schedule grid from a file.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//     go run ./cmd/schedule-import -org <organization-id> -file schedule.tsv -year 2025
//
// -dry-run prints the plan without writing. -replace wipes the target month
// first and asks for the month to be typed back as confirmation.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/models"
	"github.com/madamisu/venue_backend/utils"
	"github.com/madamisu/venue_backend/workflow"
)

func main() {
	org := flag.String("org", "", "organization id (required)")
	file := flag.String("file", "", "tab-separated schedule file (required)")
	year := flag.Int("year", time.Now().Year(), "calendar year the M/D dates belong to")
	replace := flag.Bool("replace", false, "delete the whole month before importing")
	dryRun := flag.Bool("dry-run", false, "print the plan, write nothing")
	flag.Parse()

	if *org == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *file, err)
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	ctx := utils.SetOrganizationIdInContext(context.Background(), *org)
	ctx = utils.SetUserNameInContext(ctx, "schedule-import")

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

	parsed := workflow.ParseAndResolve(string(raw), *year, cfg.VenueMap(), resolver)
	if config.StrictUnresolvedScenarios() {
		parsed = workflow.DropUnresolvedScenarios(parsed)
	}
	for _, w := range parsed.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	if len(parsed.Drafts) == 0 && len(parsed.Memos) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to import")
		os.Exit(1)
	}

	from, to := dateBounds(parsed)
	persistedPtrs, err := models.EventsForDateRange(ctx, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load events: %v\n", err)
		os.Exit(1)
	}
	var persisted []models.ScheduleEvent
	for _, e := range persistedPtrs {
		persisted = append(persisted, *e)
	}
	memoPtrs, err := models.MemosForDateRange(ctx, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load memos: %v\n", err)
		os.Exit(1)
	}
	var memos []models.DayMemo
	for _, m := range memoPtrs {
		memos = append(memos, *m)
	}

	plan := workflow.Plan(parsed, persisted, memos, *replace)

	inserts, updates, skips, memoCount := plan.Counts()
	fmt.Printf("plan: %d inserts, %d updates, %d skips, %d memos, %d deletions (months %s)\n",
		inserts, updates, skips, memoCount, len(plan.DeleteEventIds), strings.Join(plan.Months, ", "))

	if *dryRun {
		return
	}

	if *replace && len(plan.DeleteEventIds) > 0 {
		reservations, err := models.CountReservationsForEvents(ctx, plan.DeleteEventIds)
		if err != nil {
			fmt.Fprintf(os.Stderr, "count reservations: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("replace will delete %d events and %d reservations.\n", len(plan.DeleteEventIds), reservations)
		fmt.Printf("type the month (%s) to confirm: ", strings.Join(plan.Months, ", "))
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !confirmedMonth(strings.TrimSpace(line), plan.Months) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(1)
		}
	}

	result, err := workflow.Execute(ctx, &plan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "execute: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("done: deleted %d, inserted %d, updated %d, memos %d, failed %d\n",
		result.Deleted, result.Inserted, result.Updated, result.Memos, result.Failed)
	for _, msg := range result.Messages {
		fmt.Fprintln(os.Stderr, msg)
	}
	if result.Failed > 0 {
		os.Exit(1)
	}
}

func dateBounds(parsed workflow.ParseResult) (string, string) {
	min, max := "", ""
	note := func(d string) {
		if min == "" || d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	for _, d := range parsed.Drafts {
		note(d.Date)
	}
	for _, m := range parsed.Memos {
		note(m.Date)
	}
	first, _ := time.Parse("2006-01-02", min)
	last, _ := time.Parse("2006-01-02", max)
	from := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(last.Year(), last.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return from.Format("2006-01-02"), to.Format("2006-01-02")
}

func confirmedMonth(input string, months []string) bool {
	for _, m := range months {
		if input == m {
			return true
		}
	}
	return false
}
