package report

import (
	"time"

	"github.com/ppiankov/compliancespectre/internal/compliance"
	"github.com/ppiankov/compliancespectre/internal/ingest"
)

// Reporter renders an aggregation result.
type Reporter interface {
	Generate(data Data) error
}

// Target identifies where the compliance exports were read from.
type Target struct {
	Type    string `json:"type"`
	URIHash string `json:"uri_hash"`
}

// ReportConfig echoes the request that produced the report.
type ReportConfig struct {
	Source    string   `json:"source"`
	Framework string   `json:"framework"`
	Account   []string `json:"account,omitempty"`
	Region    []string `json:"region,omitempty"`
	Date      string   `json:"date,omitempty"`
}

// Data is everything a reporter needs.
type Data struct {
	Tool      string                 `json:"tool"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Target    Target                 `json:"target"`
	Config    ReportConfig           `json:"config"`
	Result    *compliance.Result     `json:"result"`
	Skipped   []ingest.SkippedSource `json:"skipped,omitempty"`
	// Requirements adds the per-requirement table to text output.
	Requirements bool `json:"-"`
}
