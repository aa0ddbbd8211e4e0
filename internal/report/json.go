package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONSchema identifies the JSON report envelope.
const JSONSchema = "compliancespectre/v1"

// JSONReporter writes the full result as indented JSON.
type JSONReporter struct {
	Writer io.Writer
}

type jsonEnvelope struct {
	Schema string `json:"$schema"`
	Data
}

// Generate writes the JSON report.
func (r *JSONReporter) Generate(data Data) error {
	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonEnvelope{Schema: JSONSchema, Data: data}); err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}
	return nil
}
