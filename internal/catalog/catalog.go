package catalog

import (
	"sort"
	"strings"
)

// Level selects a profile level of a leveled framework.
type Level int

const (
	// LevelNone marks a framework that is not split into levels.
	LevelNone Level = iota
	Level1
	Level2
)

const levelSeparator = " - Level_"

// leveledMarker flags frameworks published as a combined Level 1 + Level 2 benchmark.
const leveledMarker = "CIS_"

// Level1Profile is the requirement profile kept when level 1 is selected.
const Level1Profile = "Level 1"

// Selection is a catalog entry translated back to its source framework.
type Selection struct {
	Name  string
	Base  string
	Level Level
}

// ProfileFilter returns the requirement profile rows must carry for this
// selection. Level 2 is the superset and applies no filter.
func (s Selection) ProfileFilter() (string, bool) {
	if s.Level == Level1 {
		return Level1Profile, true
	}
	return "", false
}

// IsLeveled reports whether a canonical framework expands into levels.
func IsLeveled(name string) bool {
	return strings.Contains(strings.ToUpper(name), leveledMarker)
}

// Expand replaces every leveled framework by its Level_1 and Level_2 entries
// and returns the deduplicated, sorted list.
func Expand(frameworks []string) []string {
	seen := make(map[string]bool, len(frameworks))
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, name := range frameworks {
		if name == "" {
			continue
		}
		if IsLeveled(name) {
			add(name + levelSeparator + "1")
			add(name + levelSeparator + "2")
			continue
		}
		add(name)
	}
	sort.Strings(out)
	return out
}

// ParseSelection splits "<name> - Level_N" into base name and level.
func ParseSelection(selection string) Selection {
	sel := Selection{Name: selection, Base: selection}
	idx := strings.LastIndex(selection, levelSeparator)
	if idx < 0 {
		return sel
	}
	switch selection[idx+len(levelSeparator):] {
	case "1":
		sel.Level = Level1
	case "2":
		sel.Level = Level2
	default:
		return sel
	}
	sel.Base = selection[:idx]
	return sel
}

// Catalog is the selectable list of frameworks.
type Catalog struct {
	names []string
	bases map[string]bool
}

// New builds a catalog from the canonical framework names observed at ingestion.
func New(frameworks []string) *Catalog {
	bases := make(map[string]bool, len(frameworks))
	for _, name := range frameworks {
		if name != "" {
			bases[name] = true
		}
	}
	return &Catalog{names: Expand(frameworks), bases: bases}
}

// Names returns the sorted selectable framework names.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Lookup resolves a selectable name to its source framework and level.
func (c *Catalog) Lookup(selection string) (Selection, bool) {
	sel := ParseSelection(selection)
	if !c.bases[sel.Base] {
		return Selection{}, false
	}
	// Leveled frameworks are only selectable per level.
	if IsLeveled(sel.Base) != (sel.Level != LevelNone) {
		return Selection{}, false
	}
	return sel, true
}
