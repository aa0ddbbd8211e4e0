package report

import (
	"sort"
	"strings"

	"github.com/ppiankov/compliancespectre/internal/finding"
)

// Column is one grouping column of the requirements table.
type Column struct {
	Header string
	Value  func(finding.Finding) string
}

// Renderer describes how a framework's requirements table is grouped.
type Renderer struct {
	Name    string
	Columns []Column
}

// RequirementRow is one group of the requirements table.
type RequirementRow struct {
	Values []string
	Pass   int
	Fail   int
	Muted  int
}

func attrColumn(header string, get func(finding.Requirement) finding.Attr) Column {
	return Column{Header: header, Value: func(f finding.Finding) string {
		a := get(f.Requirement)
		if a.Missing() {
			return finding.LocationNone
		}
		return a.Value
	}}
}

var (
	sectionColumn     = attrColumn("Section", func(r finding.Requirement) finding.Attr { return r.Section })
	requirementColumn = attrColumn("Requirement", func(r finding.Requirement) finding.Attr { return r.ID })
	categoriaColumn   = attrColumn("Categoria", func(r finding.Requirement) finding.Attr { return r.Categoria })
	serviceColumn     = attrColumn("Service", func(r finding.Requirement) finding.Attr { return r.Service })
	checkColumn       = Column{Header: "Check", Value: func(f finding.Finding) string { return f.CheckID }}
)

// Rows groups findings by the renderer's columns, sorted by column values.
func (r Renderer) Rows(findings []finding.Finding) []RequirementRow {
	groups := make(map[string]*RequirementRow)
	for _, f := range findings {
		values := make([]string, len(r.Columns))
		for i, c := range r.Columns {
			values[i] = c.Value(f)
		}
		key := strings.Join(values, "\x00")
		row, ok := groups[key]
		if !ok {
			row = &RequirementRow{Values: values}
			groups[key] = row
		}
		switch {
		case f.Muted:
			row.Muted++
		case f.Status == finding.StatusPass:
			row.Pass++
		case f.Status == finding.StatusFail:
			row.Fail++
		}
	}

	rows := make([]RequirementRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return strings.Join(rows[i].Values, "\x00") < strings.Join(rows[j].Values, "\x00")
	})
	return rows
}

type registryEntry struct {
	marker   string
	renderer Renderer
}

// Registry maps canonical framework names to renderers. Entries are matched
// in registration order by case-insensitive substring.
type Registry struct {
	entries  []registryEntry
	fallback Renderer
}

// NewRegistry creates a registry that returns fallback when nothing matches.
func NewRegistry(fallback Renderer) *Registry {
	return &Registry{fallback: fallback}
}

// Register adds a renderer for frameworks whose name contains marker.
func (r *Registry) Register(marker string, renderer Renderer) {
	r.entries = append(r.entries, registryEntry{marker: strings.ToUpper(marker), renderer: renderer})
}

// Lookup returns the renderer for a framework.
func (r *Registry) Lookup(framework string) Renderer {
	upper := strings.ToUpper(framework)
	for _, e := range r.entries {
		if strings.Contains(upper, e.marker) {
			return e.renderer
		}
	}
	return r.fallback
}

// DefaultRegistry returns the built-in renderers.
func DefaultRegistry() *Registry {
	reg := NewRegistry(Renderer{Name: "generic", Columns: []Column{requirementColumn}})
	reg.Register("THREATSCORE", Renderer{Name: "threatscore", Columns: []Column{sectionColumn, requirementColumn}})
	reg.Register("CIS_", Renderer{Name: "cis", Columns: []Column{sectionColumn, requirementColumn}})
	reg.Register("ENS_", Renderer{Name: "ens", Columns: []Column{categoriaColumn, requirementColumn}})
	reg.Register("MITRE_ATTACK", Renderer{Name: "mitre", Columns: []Column{requirementColumn, checkColumn}})
	reg.Register("AWS_WELL_ARCHITECTED", Renderer{Name: "well-architected", Columns: []Column{sectionColumn, requirementColumn}})
	reg.Register("AWS_FOUNDATIONAL_TECHNICAL_REVIEW", Renderer{Name: "ftr", Columns: []Column{serviceColumn, requirementColumn}})
	return reg
}
