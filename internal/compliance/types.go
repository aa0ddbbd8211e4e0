package compliance

import (
	"errors"

	"github.com/ppiankov/compliancespectre/internal/analyzer"
	"github.com/ppiankov/compliancespectre/internal/filter"
	"github.com/ppiankov/compliancespectre/internal/finding"
)

// ErrFrameworkNotFound is returned when a selection names no known framework.
var ErrFrameworkNotFound = errors.New("framework not found")

// Outcome distinguishes a populated result from an empty selection.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeNoData Outcome = "no_data"
)

// Filters is the caller's current selection. Empty slices and an empty date
// mean nothing was chosen yet.
type Filters struct {
	Account []string `json:"account"`
	Region  []string `json:"region"`
	Date    string   `json:"date"`
}

// ResolvedFilters echoes the effective selection and the option lists
// offered back to the caller. Options narrow cascadingly.
type ResolvedFilters struct {
	Account        filter.Resolution     `json:"account"`
	AccountOptions []string              `json:"account_options"`
	Region         filter.Resolution     `json:"region"`
	RegionOptions  []string              `json:"region_options"`
	Date           filter.DateResolution `json:"date"`
	DateOptions    []string              `json:"date_options"`
}

// Result is the aggregation of one framework under one selection.
type Result struct {
	Framework     string                 `json:"framework"`
	Outcome       Outcome                `json:"outcome"`
	StatusCounts  []analyzer.StatusCount `json:"status_counts"`
	TopDimension  *analyzer.TopDimension `json:"top_dimension"`
	PillarScores  []analyzer.PillarScore `json:"pillar_scores,omitempty"`
	SectionLabels map[string]string      `json:"section_labels,omitempty"`
	Summary       analyzer.Summary       `json:"summary"`
	Findings      []finding.Finding      `json:"-"`
	Filters       ResolvedFilters        `json:"filters"`
}

// Options tune the engine.
type Options struct {
	// RiskScored lists markers of frameworks that get pillar scores.
	RiskScored []string
	// Preferences maps frameworks to their preferred ranking dimension.
	Preferences    []analyzer.Preference
	LabelMaxLength int
}

// DefaultOptions returns the built-in engine options.
func DefaultOptions() Options {
	return Options{
		RiskScored:     []string{"THREATSCORE"},
		Preferences:    analyzer.DefaultPreferences(),
		LabelMaxLength: analyzer.DefaultLabelMaxLength,
	}
}

// Skipped is a table that could not be normalized.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}
