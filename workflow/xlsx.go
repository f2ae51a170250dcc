package workflow

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// GridFromXlsx reads one sheet of an uploaded workbook into the same row
// shape ParseGrid produces from pasted text. Sheet cells arrive already
// split, so no quote handling applies; rows that are entirely empty are
// dropped the same way.
func GridFromXlsx(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var rows [][]string
	for _, row := range raw {
		empty := true
		for i, cell := range row {
			row[i] = strings.TrimSpace(cell)
			if row[i] != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// TabSeparated renders grid rows back to the tab-delimited text the parser
// consumes, so the xlsx path and the paste path share one pipeline. Cells
// that carry a tab, newline or quote are quoted the way spreadsheets paste
// them, otherwise ParseGrid would split them into extra cells.
func TabSeparated(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte('\t')
			}
			if strings.ContainsAny(cell, "\t\n\"") {
				b.WriteByte('"')
				b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
				b.WriteByte('"')
			} else {
				b.WriteString(cell)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
