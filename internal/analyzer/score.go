package analyzer

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ppiankov/compliancespectre/internal/finding"
	"github.com/ppiankov/compliancespectre/internal/metrics"
)

var hundred = decimal.NewFromInt(100)

// PillarOf returns the leading token of a section, before its first " - ".
func PillarOf(section finding.Attr) string {
	if section.Missing() {
		return UnknownPillar
	}
	head, _, _ := strings.Cut(section.Value, " - ")
	return head
}

// numeric parses a risk attribute, falling back to 1 when it is absent or
// not a number.
func numeric(field string, a finding.Attr) decimal.Decimal {
	if a.Missing() {
		return decimal.NewFromInt(1)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(a.Value))
	if err != nil {
		metrics.CoercionFailures.WithLabelValues(field).Inc()
		slog.Debug("Non-numeric risk attribute, using 1", "field", field, "value", a.Value)
		return decimal.NewFromInt(1)
	}
	return d
}

type pillarTally struct {
	passed decimal.Decimal
	total  decimal.Decimal
	pass   int
	fail   int
	muted  int
}

// PillarScores computes the weighted pass percentage of every pillar, sorted
// ascending by score. A pillar with zero total weight scores 0.
func PillarScores(rows []finding.Finding) []PillarScore {
	tallies := make(map[string]*pillarTally)
	var order []string
	for _, f := range rows {
		pillar := PillarOf(f.Requirement.Section)
		t, ok := tallies[pillar]
		if !ok {
			t = &pillarTally{passed: decimal.Zero, total: decimal.Zero}
			tallies[pillar] = t
			order = append(order, pillar)
		}

		w := numeric("level_of_risk", f.Requirement.LevelOfRisk).Mul(numeric("weight", f.Requirement.Weight))
		t.total = t.total.Add(w)
		switch f.Status {
		case finding.StatusPass:
			t.pass++
			t.passed = t.passed.Add(w)
		case finding.StatusFail:
			t.fail++
		}
		if f.Muted {
			t.muted++
		}
	}

	scores := make([]PillarScore, 0, len(order))
	for _, pillar := range order {
		t := tallies[pillar]
		score := decimal.Zero
		if t.total.IsPositive() {
			score = t.passed.Div(t.total).Mul(hundred).RoundBank(1)
		}
		scores = append(scores, PillarScore{
			Pillar:       pillar,
			Score:        score.InexactFloat64(),
			Label:        fmt.Sprintf("%s - [%s%%]", pillar, score.StringFixed(1)),
			PassedWeight: t.passed.InexactFloat64(),
			TotalWeight:  t.total.InexactFloat64(),
			Pass:         t.pass,
			Fail:         t.fail,
			Muted:        t.muted,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score < scores[j].Score
		}
		return scores[i].Pillar < scores[j].Pillar
	})
	return scores
}

// SectionLabels maps every pillar to its annotated label.
func SectionLabels(scores []PillarScore) map[string]string {
	labels := make(map[string]string, len(scores))
	for _, s := range scores {
		labels[s.Pillar] = s.Label
	}
	return labels
}

// Relabel returns a copy of rows where every section equal to a pillar name
// is replaced by that pillar's annotated label.
func Relabel(rows []finding.Finding, labels map[string]string) []finding.Finding {
	out := make([]finding.Finding, len(rows))
	copy(out, rows)
	for i := range out {
		section := out[i].Requirement.Section
		if !section.Present {
			continue
		}
		if label, ok := labels[section.Value]; ok {
			out[i].Requirement.Section = finding.Some(label)
		}
	}
	return out
}
