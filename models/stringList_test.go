package models

import "testing"

func TestStringList_Contains(t *testing.T) {
	l := StringList{"ソラ", "ミナト"}
	if !l.Contains("ソラ") {
		t.Error("want ソラ present")
	}
	if l.Contains("そら") {
		t.Error("Contains is exact, folding happens before membership checks")
	}
	var empty StringList
	if empty.Contains("ソラ") {
		t.Error("empty list contains nothing")
	}
}
