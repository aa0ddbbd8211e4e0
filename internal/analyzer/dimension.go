package analyzer

import (
	"sort"
	"strings"

	"github.com/ppiankov/compliancespectre/internal/finding"
)

const topN = 5

func (d Dimension) attr(f finding.Finding) finding.Attr {
	req := f.Requirement
	switch d {
	case DimensionRequirementID:
		return req.ID
	case DimensionPillar:
		return finding.Some(PillarOf(req.Section))
	case DimensionSection:
		return req.Section
	case DimensionCategoria:
		return req.Categoria
	case DimensionCategory:
		return req.Category
	case DimensionService:
		return req.Service
	}
	return finding.Attr{}
}

// qualifies reports whether every row carries a usable value for d.
// A preferred requirement id only needs the column to be present, so PCI
// exports rank by requirement even when some rows leave it blank.
func (d Dimension) qualifies(rows []finding.Finding, preferred bool) bool {
	if len(rows) == 0 {
		return false
	}
	for _, f := range rows {
		a := d.attr(f)
		if preferred && d == DimensionRequirementID {
			if !a.Present {
				return false
			}
			continue
		}
		if a.Missing() {
			return false
		}
	}
	return true
}

// ChooseDimension picks the ranking dimension for a framework: its
// configured preference first, then the generic fallback order. It returns
// false when no dimension qualifies.
func ChooseDimension(rows []finding.Finding, cfg AnalyzerConfig) (Dimension, bool) {
	framework := strings.ToUpper(cfg.Framework)
	for _, p := range cfg.Preferences {
		if p.Match == "" || !strings.Contains(framework, strings.ToUpper(p.Match)) {
			continue
		}
		if p.Dimension.qualifies(rows, true) {
			return p.Dimension, true
		}
	}
	for _, d := range fallbackDimensions {
		if d.qualifies(rows, false) {
			return d, true
		}
	}
	return "", false
}

// RankFailing counts FAIL rows per value of d and returns the five largest,
// ascending by count. Labels longer than maxLen characters are cut.
func RankFailing(rows []finding.Finding, d Dimension, maxLen int) []DimensionCount {
	counts := make(map[string]int)
	for _, f := range rows {
		if f.Status != finding.StatusFail {
			continue
		}
		a := d.attr(f)
		if a.Missing() {
			continue
		}
		counts[a.Value]++
	}

	ranked := make([]DimensionCount, 0, len(counts))
	for label, n := range counts {
		ranked = append(ranked, DimensionCount{Label: label, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count < ranked[j].Count
		}
		return ranked[i].Label > ranked[j].Label
	})
	if len(ranked) > topN {
		ranked = ranked[len(ranked)-topN:]
	}
	for i := range ranked {
		ranked[i].Label = TruncateLabel(ranked[i].Label, maxLen)
	}
	return ranked
}

// TruncateLabel cuts s to maxLen characters followed by "...".
func TruncateLabel(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultLabelMaxLength
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
