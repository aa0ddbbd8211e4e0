package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ppiankov/compliancespectre/internal/analyzer"
	"github.com/ppiankov/compliancespectre/internal/compliance"
	"github.com/ppiankov/compliancespectre/internal/finding"
)

// TextReporter writes human-readable tables.
type TextReporter struct {
	Writer   io.Writer
	Registry *Registry
}

var (
	failColor  = color.New(color.FgRed, color.Bold)
	passColor  = color.New(color.FgGreen)
	mutedColor = color.New(color.FgHiBlack)
	warnColor  = color.New(color.FgYellow)
)

func colorStatus(s finding.Status) string {
	switch s {
	case finding.StatusFail:
		return failColor.Sprint(s)
	case finding.StatusPass:
		return passColor.Sprint(s)
	case finding.StatusManual, finding.StatusWarn:
		return warnColor.Sprint(s)
	default:
		return string(s)
	}
}

var dimensionTitles = map[analyzer.Dimension]string{
	analyzer.DimensionRequirementID: "Requirements",
	analyzer.DimensionPillar:        "Pillars",
	analyzer.DimensionSection:       "Sections",
	analyzer.DimensionCategoria:     "Categorias",
	analyzer.DimensionCategory:      "Categories",
	analyzer.DimensionService:       "Services",
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

// Generate writes the text report.
func (r *TextReporter) Generate(data Data) error {
	w := r.Writer
	fmt.Fprintf(w, "%s %s - compliance summary\n", data.Tool, data.Version)
	if data.Config.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", data.Config.Source)
	}

	res := data.Result
	if res == nil {
		return fmt.Errorf("render text report: no result")
	}
	fmt.Fprintf(w, "Framework: %s\n", res.Framework)
	writeFilters(w, res.Filters)
	fmt.Fprintln(w)

	if res.Outcome == compliance.OutcomeNoData {
		fmt.Fprintln(w, "No findings for this selection.")
		writeSkipped(w, data)
		return nil
	}

	total := 0
	for _, sc := range res.StatusCounts {
		total += sc.Count
	}
	st := newTable(w, "Overall Status")
	st.AppendHeader(table.Row{"Status", "Findings", "Share"})
	for _, sc := range res.StatusCounts {
		share := 0.0
		if total > 0 {
			share = 100 * float64(sc.Count) / float64(total)
		}
		st.AppendRow(table.Row{colorStatus(sc.Status), sc.Count, fmt.Sprintf("%.1f%%", share)})
	}
	st.AppendFooter(table.Row{"Total", total, ""})
	st.Render()
	if res.Summary.MutedFindings > 0 {
		fmt.Fprintln(w, mutedColor.Sprintf("%d muted findings excluded", res.Summary.MutedFindings))
	}
	fmt.Fprintln(w)

	if res.TopDimension != nil {
		tt := newTable(w, "Top Failed "+dimensionTitles[res.TopDimension.Name])
		tt.AppendHeader(table.Row{"Value", "Failed"})
		for i := len(res.TopDimension.Ranked) - 1; i >= 0; i-- {
			dc := res.TopDimension.Ranked[i]
			tt.AppendRow(table.Row{dc.Label, dc.Count})
		}
		tt.Render()
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "No failing dimension ranking available for this framework.")
		fmt.Fprintln(w)
	}

	if len(res.PillarScores) > 0 {
		pt := newTable(w, "Risk Score by Pillar")
		pt.AppendHeader(table.Row{"Pillar", "Score", "Pass", "Fail", "Muted"})
		pt.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
		for _, ps := range res.PillarScores {
			pt.AppendRow(table.Row{ps.Pillar, fmt.Sprintf("%.1f%%", ps.Score), ps.Pass, ps.Fail, ps.Muted})
		}
		pt.Render()
		fmt.Fprintln(w)
	}

	if data.Requirements {
		r.writeRequirements(w, res)
	}
	writeSkipped(w, data)
	return nil
}

func (r *TextReporter) writeRequirements(w io.Writer, res *compliance.Result) {
	registry := r.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	renderer := registry.Lookup(res.Framework)

	header := table.Row{}
	for _, c := range renderer.Columns {
		header = append(header, c.Header)
	}
	header = append(header, "Pass", "Fail", "Muted")

	rt := newTable(w, "Requirements")
	rt.AppendHeader(header)
	for _, row := range renderer.Rows(res.Findings) {
		cells := table.Row{}
		for _, v := range row.Values {
			cells = append(cells, v)
		}
		fail := fmt.Sprint(row.Fail)
		if row.Fail > 0 {
			fail = failColor.Sprint(row.Fail)
		}
		cells = append(cells, row.Pass, fail, row.Muted)
		rt.AppendRow(cells)
	}
	rt.Render()
	fmt.Fprintln(w)
}

func writeFilters(w io.Writer, f compliance.ResolvedFilters) {
	date := f.Date.Selection
	if f.Date.FellBack {
		date += " (newest available)"
	}
	fmt.Fprintf(w, "Accounts: %s  Regions: %s  Date: %s\n",
		strings.Join(f.Account.Selection, ","),
		strings.Join(f.Region.Selection, ","),
		date)
}

func writeSkipped(w io.Writer, data Data) {
	if len(data.Skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "Skipped %d sources:\n", len(data.Skipped))
	for _, s := range data.Skipped {
		fmt.Fprintf(w, "  %s: %s\n", s.Name, s.Reason)
	}
}
