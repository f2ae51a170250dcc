package workflow

import "strings"

// ParseGrid splits copy-pasted spreadsheet text into rows of cells. Rows are
// newline-separated, cells tab-separated, and a double-quoted cell may embed
// both delimiters, so the scan tracks quote state character by character.
// Splitting on the delimiters up front would break any cell with an embedded
// newline. Embedded newlines inside a quoted cell collapse to one space and
// the outer quotes are stripped.
func ParseGrid(raw string) [][]string {
	var rows [][]string
	var row []string
	var cell strings.Builder
	inQuotes := false

	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	flushCell := func() {
		row = append(row, strings.TrimSpace(cell.String()))
		cell.Reset()
	}
	flushRow := func() {
		flushCell()
		// Drop rows that are entirely empty cells.
		empty := true
		for _, c := range row {
			if c != "" {
				empty = false
				break
			}
		}
		if !empty {
			rows = append(rows, row)
		}
		row = nil
	}

	for _, r := range raw {
		switch {
		case r == '"':
			// Quote characters only toggle state; doubled quotes inside a
			// quoted cell come out as nothing, which matches how the source
			// sheets use them (wrapping, not escaping).
			inQuotes = !inQuotes
		case r == '\t' && !inQuotes:
			flushCell()
		case r == '\n' && !inQuotes:
			flushRow()
		case r == '\n' && inQuotes:
			cell.WriteRune(' ')
		default:
			cell.WriteRune(r)
		}
	}
	if cell.Len() > 0 || len(row) > 0 {
		flushRow()
	}
	return rows
}
