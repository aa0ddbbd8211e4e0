package compliance

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ppiankov/compliancespectre/internal/analyzer"
	"github.com/ppiankov/compliancespectre/internal/catalog"
	"github.com/ppiankov/compliancespectre/internal/filter"
	"github.com/ppiankov/compliancespectre/internal/finding"
	"github.com/ppiankov/compliancespectre/internal/metrics"
	"github.com/ppiankov/compliancespectre/internal/normalize"
	"github.com/ppiankov/compliancespectre/internal/snapshot"
)

// Engine answers aggregation requests over a fixed set of normalized
// findings. It is immutable after construction and safe for concurrent use.
type Engine struct {
	opts     Options
	catalog  *catalog.Catalog
	findings map[string][]finding.Finding
	skipped  []Skipped
}

// NewEngine normalizes every table and groups the findings by canonical
// framework. Tables that cannot be normalized are skipped and reported by
// Skipped.
func NewEngine(tables []finding.RawTable, opts Options) *Engine {
	e := &Engine{
		opts:     opts,
		findings: make(map[string][]finding.Finding),
	}

	for _, table := range tables {
		res, err := normalize.Normalize(table)
		if err != nil {
			reason := "normalize"
			if errors.Is(err, normalize.ErrNoIdentityColumn) {
				reason = "no_identity_column"
			}
			metrics.SourcesSkipped.WithLabelValues(reason).Inc()
			slog.Warn("Skipping table", "file", table.Name, "error", err)
			e.skipped = append(e.skipped, Skipped{Name: table.Name, Reason: err.Error()})
			continue
		}
		e.findings[res.Framework] = append(e.findings[res.Framework], res.Findings...)
	}

	names := make([]string, 0, len(e.findings))
	for name := range e.findings {
		names = append(names, name)
	}
	e.catalog = catalog.New(names)
	return e
}

// ListFrameworks returns the sorted selectable framework names.
func (e *Engine) ListFrameworks() []string {
	return e.catalog.Names()
}

// Skipped returns the tables dropped at construction.
func (e *Engine) Skipped() []Skipped {
	return append([]Skipped(nil), e.skipped...)
}

// DateOptions returns the latest run of every calendar day across all
// frameworks, newest first.
func (e *Engine) DateOptions() []snapshot.Run {
	frameworks := make([]string, 0, len(e.findings))
	for name := range e.findings {
		frameworks = append(frameworks, name)
	}
	sort.Strings(frameworks)

	var all []finding.Finding
	for _, name := range frameworks {
		all = append(all, e.findings[name]...)
	}
	return snapshot.DailyRuns(all)
}

// Aggregate runs the pipeline for one framework selection. An unknown
// framework yields ErrFrameworkNotFound; a selection matching no rows is a
// result with OutcomeNoData.
func (e *Engine) Aggregate(framework string, filters Filters) (*Result, error) {
	sel, ok := e.catalog.Lookup(framework)
	if !ok {
		metrics.Aggregations.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("aggregate %q: %w", framework, ErrFrameworkNotFound)
	}

	rows := e.findings[sel.Base]
	if profile, ok := sel.ProfileFilter(); ok {
		rows = keep(rows, func(f finding.Finding) bool {
			return f.Requirement.Profile.Present && f.Requirement.Profile.Value == profile
		})
	}

	var resolved ResolvedFilters

	resolved.AccountOptions = filter.Options(values(rows, func(f finding.Finding) string { return f.AccountIdentifier }))
	resolved.Account = filter.Resolve(filters.Account, resolved.AccountOptions)
	rows = keep(rows, func(f finding.Finding) bool { return resolved.Account.Matches(f.AccountIdentifier) })

	resolved.RegionOptions = filter.Options(values(rows, func(f finding.Finding) string { return f.LocationIdentifier }))
	resolved.Region = filter.Resolve(filters.Region, resolved.RegionOptions)
	rows = keep(rows, func(f finding.Finding) bool { return resolved.Region.Matches(f.LocationIdentifier) })

	rows = snapshot.Latest(rows)

	resolved.DateOptions = snapshot.Days(rows)
	resolved.Date = filter.ResolveDate(filters.Date, resolved.DateOptions)
	if resolved.Date.FellBack {
		slog.Debug("Requested date unavailable, using newest", "requested", filters.Date, "date", resolved.Date.Selection)
	}
	rows = keep(rows, func(f finding.Finding) bool { return resolved.Date.Matches(f.Day()) })

	result := &Result{
		Framework:    framework,
		Outcome:      OutcomeNoData,
		StatusCounts: []analyzer.StatusCount{},
		Filters:      resolved,
	}
	if len(rows) == 0 {
		metrics.Aggregations.WithLabelValues(string(OutcomeNoData)).Inc()
		return result, nil
	}

	analysis := analyzer.Analyze(rows, analyzer.AnalyzerConfig{
		Framework:      sel.Base,
		RiskScored:     e.riskScored(sel.Base),
		Preferences:    e.opts.Preferences,
		LabelMaxLength: e.opts.LabelMaxLength,
	})

	result.Outcome = OutcomeOK
	result.StatusCounts = analysis.StatusCounts
	result.TopDimension = analysis.TopDimension
	result.PillarScores = analysis.PillarScores
	result.SectionLabels = analysis.SectionLabels
	result.Summary = analysis.Summary
	result.Findings = analysis.Findings
	metrics.Aggregations.WithLabelValues(string(OutcomeOK)).Inc()
	return result, nil
}

func (e *Engine) riskScored(framework string) bool {
	upper := strings.ToUpper(framework)
	for _, marker := range e.opts.RiskScored {
		if marker != "" && strings.Contains(upper, strings.ToUpper(marker)) {
			return true
		}
	}
	return false
}

func keep(rows []finding.Finding, pred func(finding.Finding) bool) []finding.Finding {
	out := make([]finding.Finding, 0, len(rows))
	for _, f := range rows {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

func values(rows []finding.Finding, field func(finding.Finding) string) []string {
	out := make([]string, len(rows))
	for i, f := range rows {
		out[i] = field(f)
	}
	return out
}
