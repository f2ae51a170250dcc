package workflow

import (
	"reflect"
	"testing"
)

// NOTE: workbook cells may carry embedded newlines (wrapped memo cells).
// The tab-separated rendering has to quote them, or ParseGrid splits one
// cell into extra rows on the shared pipeline.
func TestTabSeparated_MultilineCellRoundTrips(t *testing.T) {
	rows := [][]string{
		{"9/1", "月", "馬場", "メモ一行目\n二行目", "ソラ"},
		{"9/2", "火", "高田", "狂気山脈(19-22)", "ミナト"},
	}
	parsed := ParseGrid(TabSeparated(rows))
	if len(parsed) != 2 {
		t.Fatalf("rows = %d, want 2", len(parsed))
	}
	want := []string{"9/1", "月", "馬場", "メモ一行目 二行目", "ソラ"}
	if !reflect.DeepEqual(parsed[0], want) {
		t.Errorf("row = %v, want %v", parsed[0], want)
	}
	if !reflect.DeepEqual(parsed[1], rows[1]) {
		t.Errorf("plain row = %v, want %v", parsed[1], rows[1])
	}
}

func TestTabSeparated_TabInCellStaysOneCell(t *testing.T) {
	parsed := ParseGrid(TabSeparated([][]string{{"a", "x\ty", "b"}}))
	want := []string{"a", "x\ty", "b"}
	if !reflect.DeepEqual(parsed[0], want) {
		t.Errorf("row = %v, want %v", parsed[0], want)
	}
}
