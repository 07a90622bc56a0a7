package util

import (
	"encoding/json"
	"testing"
)

func TestParseCents(t *testing.T) {
	cases := map[string]int64{
		"5000":     500000,
		"1500.5":   150050,
		"1500.50":  150050,
		" 12.345 ": 1235,
		"0.01":     1,
		"-20":      -2000,
	}
	for in, want := range cases {
		got, err := ParseCents(in)
		if err != nil {
			t.Errorf("ParseCents(%q) error = %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCents(%q) = %d, want %d", in, got, want)
		}
	}

	for _, in := range []string{"", "abc", "12,50", "1.2.3"} {
		if _, err := ParseCents(in); err == nil {
			t.Errorf("ParseCents(%q) error = nil, want error", in)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		1:      "0.01",
		150050: "1500.50",
		-2500:  "-25.00",
	}
	for in, want := range cases {
		if got := FormatCents(in); got != want {
			t.Errorf("FormatCents(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var req struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 1500.5, "b": "2000", "c": null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a, _ := req.A.Cents(); a != 150050 {
		t.Errorf("number amount = %d", a)
	}
	if b, _ := req.B.Cents(); b != 200000 {
		t.Errorf("string amount = %d", b)
	}
	if req.C.IsSet() {
		t.Error("null amount should be unset")
	}
	if err := json.Unmarshal([]byte(`{"a": true}`), &req); err == nil {
		t.Error("boolean amount should fail")
	}
}
