package filter

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	available := []string{"111", "222", "333"}

	tests := []struct {
		name          string
		selection     []string
		wantSelection []string
		wantValues    []string
		wantAll       bool
	}{
		{"sentinel", []string{"All"}, []string{"All"}, available, true},
		{"empty", nil, []string{"All"}, available, true},
		{"sentinel with explicit", []string{"All", "222"}, []string{"222"}, []string{"222"}, false},
		{"explicit", []string{"333", "111"}, []string{"333", "111"}, []string{"333", "111"}, false},
		{"unavailable value", []string{"All", "999"}, []string{"999"}, []string{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.selection, available)
			if !reflect.DeepEqual(got.Selection, tt.wantSelection) {
				t.Fatalf("selection: expected %v, got %v", tt.wantSelection, got.Selection)
			}
			if !reflect.DeepEqual(got.Values, tt.wantValues) {
				t.Fatalf("values: expected %v, got %v", tt.wantValues, got.Values)
			}
			if got.All != tt.wantAll {
				t.Fatalf("all: expected %v, got %v", tt.wantAll, got.All)
			}
		})
	}
}

func TestResolve_EmptyEqualsSentinel(t *testing.T) {
	available := []string{"eu-west-1", "us-east-1"}
	if !reflect.DeepEqual(Resolve(nil, available), Resolve([]string{All}, available)) {
		t.Fatal("empty selection must resolve like the sentinel")
	}
}

func TestResolve_DoesNotMutateSelection(t *testing.T) {
	sel := []string{"All", "x"}
	Resolve(sel, []string{"x"})
	if !reflect.DeepEqual(sel, []string{"All", "x"}) {
		t.Fatalf("selection was modified: %v", sel)
	}
}

func TestResolution_Matches(t *testing.T) {
	r := Resolve([]string{"a"}, []string{"a", "b"})
	if !r.Matches("a") || r.Matches("b") {
		t.Fatalf("unexpected matching for %+v", r)
	}
	if !Resolve(nil, nil).Matches("anything") {
		t.Fatal("sentinel must match every value")
	}
}

func TestOptions(t *testing.T) {
	got := Options([]string{"b", "", "a", "nan", "b", " "})
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := WithAll(want); !reflect.DeepEqual(got, []string{"All", "a", "b"}) {
		t.Fatalf("unexpected options with sentinel: %v", got)
	}
}

func TestResolveDate(t *testing.T) {
	days := []string{"2024-01-03", "2024-01-02"}

	tests := []struct {
		name      string
		selection string
		want      DateResolution
	}{
		{"sentinel", "All", DateResolution{Selection: "All", Values: days, All: true}},
		{"empty", "", DateResolution{Selection: "All", Values: days, All: true}},
		{"present", "2024-01-02", DateResolution{Selection: "2024-01-02", Values: []string{"2024-01-02"}}},
		{"fallback to newest", "2023-12-31", DateResolution{Selection: "2024-01-03", Values: []string{"2024-01-03"}, FellBack: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDate(tt.selection, days); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestResolveDate_NoDays(t *testing.T) {
	got := ResolveDate("2024-01-02", nil)
	if got.Matches("2024-01-02") {
		t.Fatal("expected nothing to match without available days")
	}
}
