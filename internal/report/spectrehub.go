package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ppiankov/compliancespectre/internal/finding"
)

// SpectreHubReporter writes the compact spectrehub/v1 envelope: failing
// checks only, with a severity derived from the requirement's risk level.
type SpectreHubReporter struct {
	Writer io.Writer
}

type hubFinding struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Account  string `json:"account"`
	Location string `json:"location"`
	Resource string `json:"resource"`
	Message  string `json:"message"`
}

type hubEnvelope struct {
	Schema    string         `json:"$schema"`
	Tool      string         `json:"tool"`
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Target    Target         `json:"target"`
	Framework string         `json:"framework"`
	Findings  []hubFinding   `json:"findings"`
	Summary   map[string]int `json:"summary"`
}

// Generate writes the spectrehub envelope.
func (r *SpectreHubReporter) Generate(data Data) error {
	env := hubEnvelope{
		Schema:    "spectrehub/v1",
		Tool:      data.Tool,
		Version:   data.Version,
		Timestamp: data.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		Target:    data.Target,
		Findings:  []hubFinding{},
		Summary:   map[string]int{},
	}
	if res := data.Result; res != nil {
		env.Framework = res.Framework
		for _, f := range res.Findings {
			if f.Status != finding.StatusFail || f.Muted {
				continue
			}
			env.Findings = append(env.Findings, hubFinding{
				ID:       f.CheckID,
				Severity: severity(f.Requirement.LevelOfRisk),
				Account:  f.AccountIdentifier,
				Location: f.LocationIdentifier,
				Resource: f.ResourceID,
				Message:  f.StatusExtended,
			})
		}
		for _, sc := range res.StatusCounts {
			env.Summary[strings.ToLower(string(sc.Status))] = sc.Count
		}
	}

	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encode spectrehub report: %w", err)
	}
	return nil
}

func severity(levelOfRisk finding.Attr) string {
	if levelOfRisk.Missing() {
		return "medium"
	}
	risk, err := strconv.ParseFloat(strings.TrimSpace(levelOfRisk.Value), 64)
	if err != nil {
		return "medium"
	}
	switch {
	case risk >= 4:
		return "high"
	case risk >= 2:
		return "medium"
	default:
		return "low"
	}
}
