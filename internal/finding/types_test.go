package finding

import (
	"testing"
	"time"
)

func TestAttr_Missing(t *testing.T) {
	tests := []struct {
		name string
		attr Attr
		want bool
	}{
		{"absent", Attr{}, true},
		{"empty", Some(""), true},
		{"nan", Some("nan"), true},
		{"NaN", Some("NaN"), true},
		{"whitespace", Some("  "), true},
		{"value", Some("1.1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attr.Missing(); got != tt.want {
				t.Fatalf("expected Missing()=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestFinding_Day(t *testing.T) {
	f := Finding{AssessmentTimestamp: time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)}
	if f.Day() != "2024-01-02" {
		t.Fatalf("expected 2024-01-02, got %s", f.Day())
	}
}

func TestRawTable_Has(t *testing.T) {
	table := RawTable{Columns: map[string]bool{ColCheckID: true}}
	if !table.Has(ColCheckID) {
		t.Fatal("expected CHECKID column")
	}
	if table.Has(ColMuted) {
		t.Fatal("expected no MUTED column")
	}
}
