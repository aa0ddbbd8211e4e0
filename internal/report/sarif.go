package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ppiankov/compliancespectre/internal/finding"
)

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"

// SARIFReporter writes one SARIF result per failing finding.
type SARIFReporter struct {
	Writer io.Writer
}

// sarifReport is the top-level SARIF v2.1.0 structure.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	ShortDescription sarifMessage      `json:"shortDescription"`
	DefaultConfig    sarifDefaultLevel `json:"defaultConfiguration"`
}

type sarifDefaultLevel struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string         `json:"ruleId"`
	Level     string         `json:"level"`
	Message   sarifMessage   `json:"message"`
	Locations []sarifLoc     `json:"locations,omitempty"`
	Props     map[string]any `json:"properties,omitempty"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// Generate writes SARIF v2.1.0 output.
func (r *SARIFReporter) Generate(data Data) error {
	var findings []finding.Finding
	framework := ""
	if data.Result != nil {
		findings = data.Result.Findings
		framework = data.Result.Framework
	}

	results := make([]sarifResult, 0, len(findings))
	rules := make(map[string]sarifRule)
	for _, f := range findings {
		if f.Status != finding.StatusFail {
			continue
		}
		level := "error"
		if f.Muted {
			level = "note"
		}
		if _, ok := rules[f.CheckID]; !ok {
			rules[f.CheckID] = sarifRule{
				ID:               f.CheckID,
				ShortDescription: sarifMessage{Text: ruleText(f)},
				DefaultConfig:    sarifDefaultLevel{Level: "error"},
			}
		}
		results = append(results, sarifResult{
			RuleID:  f.CheckID,
			Level:   level,
			Message: sarifMessage{Text: f.StatusExtended},
			Locations: []sarifLoc{
				{
					PhysicalLocation: sarifPhysical{
						ArtifactLocation: sarifArtifact{
							URI: fmt.Sprintf("compliance://%s/%s/%s", f.AccountIdentifier, f.LocationIdentifier, f.ResourceID),
						},
					},
				},
			},
			Props: map[string]any{
				"framework":     framework,
				"requirementId": f.Requirement.ID.Value,
				"resourceName":  f.ResourceName,
				"muted":         f.Muted,
				"assessedAt":    f.AssessmentTimestamp,
			},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    data.Tool,
						Version: data.Version,
						Rules:   sortedRules(rules),
					},
				},
				Results: results,
			},
		},
	}

	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode SARIF report: %w", err)
	}
	return nil
}

func ruleText(f finding.Finding) string {
	if !f.Requirement.Description.Missing() {
		return f.Requirement.Description.Value
	}
	return f.CheckID
}

func sortedRules(rules map[string]sarifRule) []sarifRule {
	out := make([]sarifRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
