package analyzer

import (
	"sort"

	"github.com/ppiankov/compliancespectre/internal/finding"
)

// Analyze deduplicates findings and computes the status distribution, the
// top failing dimension and, for risk-scored frameworks, pillar scores.
// The input slice is not modified.
func Analyze(rows []finding.Finding, cfg AnalyzerConfig) *AnalysisResult {
	deduped := Dedupe(rows)

	result := &AnalysisResult{}
	if cfg.RiskScored {
		result.PillarScores = PillarScores(deduped)
		result.SectionLabels = SectionLabels(result.PillarScores)
		deduped = Relabel(deduped, result.SectionLabels)
	}
	result.Findings = deduped
	result.Summary = summarize(deduped)
	result.StatusCounts = StatusCounts(deduped)

	if d, ok := ChooseDimension(deduped, cfg); ok {
		result.TopDimension = &TopDimension{
			Name:   d,
			Ranked: RankFailing(deduped, d, cfg.LabelMaxLength),
		}
	}
	return result
}

// StatusCounts counts unmuted rows per status, largest first.
func StatusCounts(rows []finding.Finding) []StatusCount {
	byStatus := make(map[finding.Status]int)
	for _, f := range rows {
		if f.Muted {
			continue
		}
		byStatus[f.Status]++
	}

	counts := make([]StatusCount, 0, len(byStatus))
	for status, n := range byStatus {
		counts = append(counts, StatusCount{Status: status, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Status < counts[j].Status
	})
	return counts
}

func summarize(rows []finding.Finding) Summary {
	s := Summary{
		TotalFindings: len(rows),
		ByStatus:      make(map[string]int),
	}
	for _, f := range rows {
		if f.Muted {
			s.MutedFindings++
		}
		s.ByStatus[string(f.Status)]++
	}
	return s
}
