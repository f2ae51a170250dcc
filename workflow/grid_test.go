package workflow

import (
	"reflect"
	"testing"
)

func TestParseGrid_QuotedCellKeepsDelimiters(t *testing.T) {
	raw := "9/1\t月\t馬場\t\"メモ一行目\n二行目\"\tソラ\n"
	rows := ParseGrid(raw)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	want := []string{"9/1", "月", "馬場", "メモ一行目 二行目", "ソラ"}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("row = %v, want %v", rows[0], want)
	}
}

func TestParseGrid_QuotedTabStaysInCell(t *testing.T) {
	rows := ParseGrid("a\t\"x\ty\"\tb\n")
	want := []string{"a", "x\ty", "b"}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("row = %v, want %v", rows[0], want)
	}
}

func TestParseGrid_EmptyRowsDropped(t *testing.T) {
	rows := ParseGrid("a\tb\n\n\t\t\nc\td")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (blank and all-empty rows dropped)", len(rows))
	}
	if rows[1][0] != "c" {
		t.Errorf("rows[1][0] = %q, want c (trailing row without newline kept)", rows[1][0])
	}
}

func TestParseGrid_CRLFNormalized(t *testing.T) {
	rows := ParseGrid("a\tb\r\nc\td\r\n")
	if len(rows) != 2 || rows[0][1] != "b" || rows[1][1] != "d" {
		t.Errorf("rows = %v, want two clean rows", rows)
	}
}
