package filter

import (
	"slices"
	"sort"

	"github.com/ppiankov/compliancespectre/internal/finding"
)

// All is the selection sentinel meaning "no restriction".
const All = "All"

// Resolution is the outcome of resolving one selection against the values
// currently available.
type Resolution struct {
	// Selection is the value echoed back to the caller. An empty selection
	// comes back as [All].
	Selection []string `json:"selection"`
	// Values is the effective value set.
	Values []string `json:"values"`
	// All is true when no restriction applies.
	All bool `json:"all"`
}

// Matches reports whether v passes the resolved filter.
func (r Resolution) Matches(v string) bool {
	if r.All {
		return true
	}
	return slices.Contains(r.Values, v)
}

// Resolve applies the sentinel rules to selection. available must already be
// narrowed by the preceding filters. The input slices are never modified.
func Resolve(selection, available []string) Resolution {
	explicit := make([]string, 0, len(selection))
	for _, v := range selection {
		if v != All {
			explicit = append(explicit, v)
		}
	}

	if len(explicit) == 0 {
		return Resolution{
			Selection: []string{All},
			Values:    slices.Clone(available),
			All:       true,
		}
	}

	values := make([]string, 0, len(explicit))
	for _, v := range explicit {
		if slices.Contains(available, v) && !slices.Contains(values, v) {
			values = append(values, v)
		}
	}
	return Resolution{Selection: explicit, Values: values}
}

// Options returns the sorted distinct usable values, dropping blank cells.
func Options(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if finding.IsBlank(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// WithAll prepends the sentinel to an option list for presentation.
func WithAll(options []string) []string {
	return append([]string{All}, options...)
}

// DateResolution is the outcome of resolving the date selection.
type DateResolution struct {
	Selection string   `json:"selection"`
	Values    []string `json:"values"`
	All       bool     `json:"all"`
	// FellBack is set when the requested date was unavailable and the newest
	// available date was used instead.
	FellBack bool `json:"fell_back,omitempty"`
}

// Matches reports whether a calendar day passes the resolved date filter.
func (r DateResolution) Matches(day string) bool {
	if r.All {
		return true
	}
	return slices.Contains(r.Values, day)
}

// ResolveDate resolves a single date selection against the available days,
// which are ordered newest first. An unknown date falls back to the newest
// day. With no days available the result matches nothing.
func ResolveDate(selection string, days []string) DateResolution {
	if selection == "" || selection == All {
		return DateResolution{Selection: All, Values: slices.Clone(days), All: true}
	}
	if slices.Contains(days, selection) {
		return DateResolution{Selection: selection, Values: []string{selection}}
	}
	if len(days) == 0 {
		return DateResolution{Selection: selection}
	}
	return DateResolution{Selection: days[0], Values: []string{days[0]}, FellBack: true}
}
