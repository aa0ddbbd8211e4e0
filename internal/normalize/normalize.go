package normalize

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/compliancespectre/internal/finding"
	"github.com/ppiankov/compliancespectre/internal/metrics"
)

// ErrNoIdentityColumn is returned for tables without any account-like column.
var ErrNoIdentityColumn = errors.New("no account identifier column")

// Result holds the normalized rows of one table.
type Result struct {
	Framework string
	Findings  []finding.Finding
	// Dropped counts rows discarded because their assessment date did not parse.
	Dropped int
}

// identityRule maps one account-like column onto the canonical identifiers.
type identityRule struct {
	column   string
	account  func(finding.RawRecord) string
	location func(finding.RawTable, finding.RawRecord) string
}

var (
	accountRule = identityRule{
		column:   finding.ColAccountID,
		account:  func(r finding.RawRecord) string { return r.AccountID },
		location: regionOrLocation,
	}
	projectRule = identityRule{
		column:  finding.ColProjectID,
		account: func(r finding.RawRecord) string { return r.ProjectID },
	}
	subscriptionIDRule = identityRule{
		column:  finding.ColSubscriptionID,
		account: func(r finding.RawRecord) string { return r.SubscriptionID },
	}
	subscriptionRule = identityRule{
		column:  finding.ColSubscription,
		account: func(r finding.RawRecord) string { return r.Subscription },
	}
	contextRule = identityRule{
		column:  finding.ColContext,
		account: func(r finding.RawRecord) string { return r.Context },
		location: func(t finding.RawTable, r finding.RawRecord) string {
			if t.Has(finding.ColNamespace) {
				return r.Namespace
			}
			return finding.LocationNone
		},
	}
	tenantRule = identityRule{
		column:  finding.ColTenantID,
		account: func(r finding.RawRecord) string { return r.TenantID },
		location: func(t finding.RawTable, r finding.RawRecord) string {
			if t.Has(finding.ColLocation) {
				return r.Location
			}
			return finding.LocationNone
		},
	}
)

// genericRules is the precedence order when several identity columns exist.
var genericRules = []identityRule{accountRule, projectRule, subscriptionIDRule, subscriptionRule, contextRule, tenantRule}

func rulesFor(p Provider) []identityRule {
	switch p {
	case ProviderKubernetes:
		return append([]identityRule{contextRule}, genericRules...)
	case ProviderM365:
		return append([]identityRule{tenantRule}, genericRules...)
	default:
		return genericRules
	}
}

func regionOrLocation(t finding.RawTable, r finding.RawRecord) string {
	switch {
	case t.Has(finding.ColRegion):
		return r.Region
	case t.Has(finding.ColLocation):
		return r.Location
	default:
		return finding.LocationNone
	}
}

// Normalize converts a raw table into canonical findings. The framework name
// is derived from the table name. Rows with an unparseable assessment date
// are dropped; other malformed cells fall back to defaults.
func Normalize(table finding.RawTable) (*Result, error) {
	framework := DeriveFrameworkName(table.Name)

	var rule *identityRule
	for _, r := range rulesFor(ProviderOf(framework)) {
		if table.Has(r.column) {
			r := r
			rule = &r
			break
		}
	}
	if rule == nil {
		return nil, fmt.Errorf("normalize %s: %w", table.Name, ErrNoIdentityColumn)
	}

	result := &Result{
		Framework: framework,
		Findings:  make([]finding.Finding, 0, len(table.Records)),
	}

	for _, rec := range table.Records {
		ts, err := ParseTimestamp(rec.AssessmentDate)
		if err != nil {
			metrics.CoercionFailures.WithLabelValues("assessment_date").Inc()
			slog.Debug("Dropping row with unparseable assessment date", "file", table.Name, "value", rec.AssessmentDate)
			result.Dropped++
			continue
		}

		location := finding.LocationNone
		if rule.location != nil {
			location = rule.location(table, rec)
		}
		if finding.IsBlank(location) {
			location = finding.LocationNone
		}

		result.Findings = append(result.Findings, finding.Finding{
			CheckID:             strings.TrimSpace(rec.CheckID),
			Status:              finding.Status(strings.ToUpper(strings.TrimSpace(rec.Status))),
			Muted:               parseMuted(table, rec.Muted),
			ResourceID:          rec.ResourceID,
			ResourceName:        rec.ResourceName,
			StatusExtended:      rec.StatusExtended,
			AccountIdentifier:   strings.TrimSpace(rule.account(rec)),
			LocationIdentifier:  strings.TrimSpace(location),
			AssessmentTimestamp: ts,
			Requirement:         requirement(table, rec),
		})
	}

	if result.Dropped > 0 {
		slog.Warn("Dropped rows with unparseable assessment date", "file", table.Name, "count", result.Dropped)
	}
	return result, nil
}

func requirement(t finding.RawTable, r finding.RawRecord) finding.Requirement {
	attr := func(column, value string) finding.Attr {
		if !t.Has(column) {
			return finding.Attr{}
		}
		return finding.Some(value)
	}

	req := finding.Requirement{
		ID:          attr(finding.ColRequirementID, r.RequirementID),
		Description: attr(finding.ColRequirementDescription, r.RequirementDescription),
		Section:     attr(finding.ColSection, r.Section),
		Category:    attr(finding.ColCategory, r.Category),
		Categoria:   attr(finding.ColCategoria, r.Categoria),
		Service:     attr(finding.ColService, r.Service),
		Profile:     attr(finding.ColProfile, r.Profile),
		LevelOfRisk: attr(finding.ColLevelOfRisk, r.LevelOfRisk),
		Weight:      attr(finding.ColWeight, r.Weight),
	}
	if req.Profile.Present {
		req.Profile.Value = TruncateProfile(req.Profile.Value)
	}
	return req
}

// TruncateProfile drops the descriptive suffix after the first " - ".
func TruncateProfile(profile string) string {
	head, _, _ := strings.Cut(profile, " - ")
	return head
}

func parseMuted(t finding.RawTable, v string) bool {
	if !t.Has(finding.ColMuted) || finding.IsBlank(v) {
		return false
	}
	muted, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		metrics.CoercionFailures.WithLabelValues("muted").Inc()
		slog.Debug("Unparseable muted flag, assuming false", "file", t.Name, "value", v)
		return false
	}
	return muted
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	finding.DayLayout,
}

// ParseTimestamp parses an assessment date in any of the layouts exports use.
func ParseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse assessment date %q", v)
}
