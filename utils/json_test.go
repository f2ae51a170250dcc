package utils

import "testing"

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Name  string   `json:"name"`
		Slots []string `json:"slots"`
	}
	in := payload{Name: "馬場", Slots: []string{"morning", "evening"}}
	s, err := MarshalToJSON(in)
	if err != nil {
		t.Fatalf("MarshalToJSON: %v", err)
	}
	var out payload
	if err := UnmarshalFromJSON([]byte(s), &out); err != nil {
		t.Fatalf("UnmarshalFromJSON: %v", err)
	}
	if out.Name != in.Name || len(out.Slots) != 2 || out.Slots[1] != "evening" {
		t.Errorf("round trip = %+v", out)
	}
}
