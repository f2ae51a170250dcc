package workflow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/madamisu/venue_backend/models"
	"github.com/shopspring/decimal"
)

// EventDraft is one parsed, resolved slot cell before reconciliation.
type EventDraft struct {
	Date            string
	Venue           string
	StoreId         *string
	TimeSlot        TimeSlot
	RawTitle        string
	Scenario        string
	ScenarioId      *string
	GMs             []string
	StartTime       string
	EndTime         string
	Category        string
	Fee             decimal.Decimal
	ReservationInfo string
	Notes           string
	IsCancelled     bool
}

// MemoDraft is a free-text day note keyed like a slot row but without times.
type MemoDraft struct {
	Date    string
	StoreId string
	Venue   string
	Body    string
}

// ParseResult is everything one paste produced.
type ParseResult struct {
	Drafts   []EventDraft
	Memos    []MemoDraft
	Warnings []string
}

// DropUnresolvedScenarios removes drafts whose scenario text matched nothing
// in the catalog, for deployments that skip such rows instead of importing
// the raw text. Each dropped draft leaves a warning. MTG rows are kept, they
// never name a catalog scenario.
func DropUnresolvedScenarios(parsed ParseResult) ParseResult {
	kept := parsed.Drafts[:0:0]
	for _, d := range parsed.Drafts {
		if d.ScenarioId == nil && d.Scenario != "" && d.Category != models.CategoryMtg {
			parsed.Warnings = append(parsed.Warnings,
				fmt.Sprintf("%s %s: %q not in catalog, skipped", d.Date, d.Venue, d.Scenario))
			continue
		}
		kept = append(kept, d)
	}
	parsed.Drafts = kept
	return parsed
}

var dateCellRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})`)

// slotOrder maps the paired title/gm column groups, left to right.
var slotOrder = []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening}

// ParseAndResolve walks the pasted grid row by row. The date column is
// sparse: a row without a date inherits the date of the row above it, so
// consecutive venue rows of the same day parse correctly. venues comes from
// the import config; a venue mapped to an empty store id is offsite.
func ParseAndResolve(raw string, contextYear int, venues map[string]string, resolver *EntityResolver) ParseResult {
	result := ParseResult{}
	rows := ParseGrid(raw)

	currentDate := ""
	currentWeekend := false
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if date, weekend, ok := parseDateCell(row, contextYear); ok {
			currentDate = date
			currentWeekend = weekend
		}
		// Header and legend rows come before the first date row; they carry
		// nothing to import and are not worth warning about.
		if currentDate == "" {
			continue
		}

		venueCol := findVenueColumn(row, venues)
		if venueCol < 0 {
			continue
		}
		venue := strings.TrimSpace(row[venueCol])
		storeId, known := venues[venue]
		if !known {
			continue
		}

		for slotIdx, slot := range slotOrder {
			titleCol := venueCol + 1 + slotIdx*2
			if titleCol >= len(row) {
				break
			}
			title := strings.TrimSpace(row[titleCol])
			if title == "" {
				continue
			}
			gmCell := ""
			if titleCol+1 < len(row) {
				gmCell = row[titleCol+1]
			}
			draft, memo, warnings := buildDraft(currentDate, currentWeekend, venue, storeId, slot, title, gmCell, resolver)
			result.Warnings = append(result.Warnings, warnings...)
			if memo != nil {
				result.Memos = append(result.Memos, *memo)
				continue
			}
			if draft != nil {
				result.Drafts = append(result.Drafts, *draft)
			}
		}
	}
	return result
}

// parseDateCell reads "9/1" style dates from column 0 and flags weekends
// from the weekday column when present, falling back to the calendar.
func parseDateCell(row []string, contextYear int) (date string, weekend bool, ok bool) {
	m := dateCellRe.FindStringSubmatch(strings.TrimSpace(row[0]))
	if m == nil {
		return "", false, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false, false
	}
	t := time.Date(contextYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	weekend = t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
	if len(row) > 1 {
		wd := row[1]
		if strings.Contains(wd, "土") || strings.Contains(wd, "日") {
			weekend = true
		} else if wd != "" {
			weekend = false
		}
	}
	return t.Format("2006-01-02"), weekend, true
}

// findVenueColumn checks the two layouts in the wild: venue at column 2, or
// at column 3 when a manager column is wedged in between.
func findVenueColumn(row []string, venues map[string]string) int {
	for _, col := range []int{2, 3} {
		if col >= len(row) {
			continue
		}
		if _, ok := venues[strings.TrimSpace(row[col])]; ok {
			return col
		}
	}
	return -1
}

func buildDraft(date string, weekend bool, venue, storeId string, slot TimeSlot, title, gmCell string, resolver *EntityResolver) (*EventDraft, *MemoDraft, []string) {
	var warnings []string

	start, end, hasTime := ParseTimeRange(title)
	scenarioName := ExtractScenarioName(title)

	if IsMemoResidual(scenarioName, hasTime) {
		body := strings.TrimSpace(title)
		if body == "" {
			return nil, nil, nil
		}
		return nil, &MemoDraft{Date: date, StoreId: storeId, Venue: venue, Body: body}, nil
	}

	if !hasTime {
		start, end = defaultSlotTimes(slot, weekend)
	}
	if hasTime {
		slot = TimeSlotOf(start)
	}

	draft := EventDraft{
		Date:            date,
		Venue:           venue,
		TimeSlot:        slot,
		RawTitle:        title,
		Scenario:        scenarioName,
		StartTime:       start,
		EndTime:         end,
		Category:        DetermineCategory(title),
		ReservationInfo: ExtractReservationInfo(title),
		Notes:           ExtractNotes(title),
		IsCancelled:     TitleIsCancelled(title),
	}
	if storeId != "" {
		id := storeId
		draft.StoreId = &id
	} else {
		draft.Category = models.CategoryOffsite
	}
	draft.Fee = ExtractPrice(title)

	if hit := resolver.ResolveScenario(scenarioName); hit != nil {
		draft.Scenario = hit.Title
		id := hit.ID
		draft.ScenarioId = &id
	} else if scenarioName != "" {
		warnings = append(warnings,
			fmt.Sprintf("%s %s: scenario %q not in catalog", date, venue, scenarioName))
	}

	gms, unresolved := resolver.ResolveAssignees(gmCell)
	draft.GMs = gms
	for _, name := range unresolved {
		warnings = append(warnings,
			fmt.Sprintf("%s %s: staff %q not in catalog", date, venue, name))
	}
	return &draft, nil, warnings
}

// defaultSlotTimes fills in the house defaults when the cell carries no
// explicit range. Weekend afternoons start an hour later.
func defaultSlotTimes(slot TimeSlot, weekend bool) (string, string) {
	switch slot {
	case SlotMorning:
		return "09:00", "13:00"
	case SlotAfternoon:
		if weekend {
			return "14:00", "18:00"
		}
		return "13:00", "18:00"
	default:
		return "19:00", "23:00"
	}
}
