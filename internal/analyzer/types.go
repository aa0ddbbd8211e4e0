package analyzer

import (
	"github.com/ppiankov/compliancespectre/internal/finding"
)

// Dimension names a column findings can be ranked by.
type Dimension string

const (
	DimensionRequirementID Dimension = "requirement_id"
	DimensionPillar        Dimension = "pillar"
	DimensionSection       Dimension = "section"
	DimensionCategoria     Dimension = "categoria"
	DimensionCategory      Dimension = "category"
	DimensionService       Dimension = "service"
)

// fallbackDimensions is tried in order after any framework preference.
var fallbackDimensions = []Dimension{
	DimensionSection,
	DimensionCategoria,
	DimensionCategory,
	DimensionService,
	DimensionRequirementID,
}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	switch d {
	case DimensionRequirementID, DimensionPillar, DimensionSection,
		DimensionCategoria, DimensionCategory, DimensionService:
		return true
	}
	return false
}

// DefaultLabelMaxLength is the character count after which labels are cut.
const DefaultLabelMaxLength = 43

// UnknownPillar buckets rows without a section.
const UnknownPillar = "Unknown"

// StatusCount is the number of unmuted findings with one status.
type StatusCount struct {
	Status finding.Status `json:"status"`
	Count  int            `json:"count"`
}

// DimensionCount is the FAIL count of one dimension value.
type DimensionCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopDimension holds the five most failing values of the chosen dimension,
// in ascending order of count.
type TopDimension struct {
	Name   Dimension        `json:"name"`
	Ranked []DimensionCount `json:"ranked"`
}

// PillarScore is the weighted pass percentage of one pillar.
type PillarScore struct {
	Pillar       string  `json:"pillar"`
	Score        float64 `json:"score"`
	Label        string  `json:"label"`
	PassedWeight float64 `json:"passed_weight"`
	TotalWeight  float64 `json:"total_weight"`
	Pass         int     `json:"pass"`
	Fail         int     `json:"fail"`
	Muted        int     `json:"muted"`
}

// Summary holds aggregated counts of the analyzed findings.
type Summary struct {
	TotalFindings int            `json:"total_findings"`
	MutedFindings int            `json:"muted_findings"`
	ByStatus      map[string]int `json:"by_status"`
}

// AnalysisResult holds the deduplicated findings and everything computed from them.
type AnalysisResult struct {
	Findings     []finding.Finding `json:"findings"`
	Summary      Summary           `json:"summary"`
	StatusCounts []StatusCount     `json:"status_counts"`
	TopDimension *TopDimension     `json:"top_dimension"`
	PillarScores []PillarScore     `json:"pillar_scores,omitempty"`
	// SectionLabels maps a pillar to its annotated "<pillar> - [<score>%]" label.
	SectionLabels map[string]string `json:"section_labels,omitempty"`
}

// Preference makes frameworks whose name contains Match rank by Dimension first.
type Preference struct {
	Match     string    `yaml:"match" json:"match"`
	Dimension Dimension `yaml:"dimension" json:"dimension"`
}

// DefaultPreferences returns the built-in framework preferences.
func DefaultPreferences() []Preference {
	return []Preference{
		{Match: "PCI", Dimension: DimensionRequirementID},
		{Match: "THREATSCORE", Dimension: DimensionPillar},
	}
}

// AnalyzerConfig controls analysis behavior.
type AnalyzerConfig struct {
	Framework      string
	RiskScored     bool
	Preferences    []Preference
	LabelMaxLength int
}
