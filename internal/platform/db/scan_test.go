package db

import (
	"testing"
	"time"
)

func TestNullTimeScan(t *testing.T) {
	want := time.Date(2026, 5, 15, 17, 4, 0, 0, time.UTC)

	tests := []struct {
		name  string
		in    any
		valid bool
	}{
		{name: "nil", in: nil, valid: false},
		{name: "time", in: want, valid: true},
		{name: "rfc3339", in: "2026-05-15T17:04:00Z", valid: true},
		{name: "sqlite text", in: []byte("2026-05-15 17:04:00+00:00"), valid: true},
		{name: "sqlite no zone", in: "2026-05-15 17:04:00", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n NullTime
			if err := n.Scan(tt.in); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Valid != tt.valid {
				t.Fatalf("valid = %v, want %v", n.Valid, tt.valid)
			}
			if tt.valid && !n.Time.Equal(want) {
				t.Errorf("time = %v, want %v", n.Time, want)
			}
		})
	}
}

func TestNullTimeScanDate(t *testing.T) {
	var n NullTime
	if err := n.Scan("2026-05-15"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if y, m, d := n.Time.Date(); y != 2026 || m != time.May || d != 15 {
		t.Errorf("date = %v", n.Time)
	}
	if n.Ptr() == nil {
		t.Error("expected non-nil pointer")
	}
}

func TestNullTimeScanRejectsGarbage(t *testing.T) {
	var n NullTime
	if err := n.Scan("yesterday"); err == nil {
		t.Fatal("expected error")
	}
	if err := n.Scan(42); err == nil {
		t.Fatal("expected error for int")
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Placeholders(1, 3); got != "$1, $2, $3" {
		t.Errorf("Placeholders(1, 3) = %q", got)
	}
	if got := Placeholders(4, 1); got != "$4" {
		t.Errorf("Placeholders(4, 1) = %q", got)
	}
	if got := Placeholders(1, 0); got != "" {
		t.Errorf("Placeholders(1, 0) = %q", got)
	}
}
