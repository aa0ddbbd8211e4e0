package snapshot

import (
	"sort"
	"time"

	"github.com/ppiankov/compliancespectre/internal/finding"
)

type key struct {
	account string
	day     string
}

// Latest keeps, for every (account, calendar day) pair, only the rows whose
// assessment timestamp equals the latest one seen for that pair. Ties at the
// maximum are all kept. Input order is preserved and the input is not modified.
func Latest(rows []finding.Finding) []finding.Finding {
	latest := make(map[key]time.Time)
	for _, f := range rows {
		k := key{account: f.AccountIdentifier, day: f.Day()}
		if cur, ok := latest[k]; !ok || f.AssessmentTimestamp.After(cur) {
			latest[k] = f.AssessmentTimestamp
		}
	}

	out := make([]finding.Finding, 0, len(rows))
	for _, f := range rows {
		k := key{account: f.AccountIdentifier, day: f.Day()}
		if f.AssessmentTimestamp.Equal(latest[k]) {
			out = append(out, f)
		}
	}
	return out
}

// Run is the most recent assessment observed on one calendar day.
type Run struct {
	Day       string    `json:"day"`
	Timestamp time.Time `json:"timestamp"`
}

// DailyRuns returns one run per calendar day, the latest across all accounts,
// newest day first.
func DailyRuns(rows []finding.Finding) []Run {
	byDay := make(map[string]time.Time)
	for _, f := range rows {
		day := f.Day()
		if cur, ok := byDay[day]; !ok || f.AssessmentTimestamp.After(cur) {
			byDay[day] = f.AssessmentTimestamp
		}
	}

	runs := make([]Run, 0, len(byDay))
	for day, ts := range byDay {
		runs = append(runs, Run{Day: day, Timestamp: ts})
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Day > runs[j].Day
	})
	return runs
}

// Days lists the calendar days of the given rows, newest first.
func Days(rows []finding.Finding) []string {
	runs := DailyRuns(rows)
	days := make([]string, len(runs))
	for i, r := range runs {
		days[i] = r.Day
	}
	return days
}
