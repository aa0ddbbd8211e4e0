package analyzer

import (
	"github.com/ppiankov/compliancespectre/internal/finding"
)

type dedupKey struct {
	checkID        string
	status         finding.Status
	muted          bool
	resourceID     string
	statusExtended string
}

// Dedupe drops rows that repeat an earlier row's check, status, mute flag,
// resource and extended status. The first occurrence wins and order is kept.
func Dedupe(rows []finding.Finding) []finding.Finding {
	seen := make(map[dedupKey]struct{}, len(rows))
	out := make([]finding.Finding, 0, len(rows))
	for _, f := range rows {
		k := dedupKey{
			checkID:        f.CheckID,
			status:         f.Status,
			muted:          f.Muted,
			resourceID:     f.ResourceID,
			statusExtended: f.StatusExtended,
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, f)
	}
	return out
}
