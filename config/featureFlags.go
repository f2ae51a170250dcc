package config

import (
	"os"
	"strconv"
	"strings"
)

// StrictUnresolvedScenarios turns drafts whose scenario text matched nothing
// in the catalog into skips instead of importing them with the raw text.
// Default is off: the importer prefers creating an event with a free-text
// scenario over silently dropping it, and the rematch CLI cleans up later.
//
// Set via env:
// - STRICT_UNRESOLVED_SCENARIOS=true
func StrictUnresolvedScenarios() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_UNRESOLVED_SCENARIOS")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// ImportBatchSize bounds the insert/update batch sizes of an import run so a
// long run stays observable and a mid-run abort loses at most one batch.
//
// Set via env:
// - IMPORT_BATCH_SIZE (default 50)
func ImportBatchSize() int {
	raw := strings.TrimSpace(os.Getenv("IMPORT_BATCH_SIZE"))
	if raw == "" {
		return 50
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 50
	}
	return n
}
