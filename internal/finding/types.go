package finding

import (
	"strings"
	"time"
)

// Status is the outcome of a single evaluated check.
type Status string

const (
	StatusPass   Status = "PASS"
	StatusFail   Status = "FAIL"
	StatusInfo   Status = "INFO"
	StatusWarn   Status = "WARN"
	StatusManual Status = "MANUAL"
)

// LocationNone is the location used when a provider has no regional concept.
const LocationNone = "-"

// Attr is an optional text attribute. Present is false when the source table
// had no column for it, which is distinct from a present but empty cell.
type Attr struct {
	Value   string
	Present bool
}

// Some returns a present attribute holding v.
func Some(v string) Attr {
	return Attr{Value: v, Present: true}
}

// Missing reports whether the attribute is absent or holds no usable value.
func (a Attr) Missing() bool {
	return !a.Present || IsBlank(a.Value)
}

// Requirement holds the classification attributes of a compliance requirement.
// Which of them are present depends on the framework.
type Requirement struct {
	ID          Attr
	Description Attr
	Section     Attr
	Category    Attr
	Categoria   Attr
	Service     Attr
	Profile     Attr
	LevelOfRisk Attr
	Weight      Attr
}

// Finding is one normalized compliance result row.
type Finding struct {
	CheckID             string
	Status              Status
	Muted               bool
	ResourceID          string
	ResourceName        string
	StatusExtended      string
	AccountIdentifier   string
	LocationIdentifier  string
	AssessmentTimestamp time.Time
	Requirement         Requirement
}

// Day returns the calendar day of the assessment as YYYY-MM-DD.
func (f Finding) Day() string {
	return f.AssessmentTimestamp.Format(DayLayout)
}

// DayLayout is the layout of calendar-day filter values.
const DayLayout = "2006-01-02"

// IsBlank reports whether a raw cell carries no value. Exports produced by
// dataframe tooling spell missing cells as "nan".
func IsBlank(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "nan")
}
