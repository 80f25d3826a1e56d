// package moods maps mood tags to recommendation profiles
package moods

import (
	"sort"

	"github.com/finchley/moodfm/internal/shared"
)

// Profile holds the recommendation query parameters for a mood tag.
//
// TargetValence and TargetEnergy are optional; nil means the parameter is
// omitted from the request.
type Profile struct {
	GenreSeed     string
	TargetValence *float64
	TargetEnergy  *float64
}

// Table resolves mood tags to immutable [Profile] values.
//
// Unknown tags resolve to a fallback profile rather than failing, so a typo in
// configuration degrades to reasonable recommendations instead of an error.
type Table struct {
	profiles map[string]Profile
	fallback Profile
}

func f64(v float64) *float64 { return &v }

// Fallback is the profile used for tags not present in the table.
var Fallback = Profile{GenreSeed: "pop"}

// BuiltIn returns the default mood table.
func BuiltIn() *Table {
	return &Table{
		profiles: map[string]Profile{
			"happy": {GenreSeed: "pop", TargetValence: f64(0.9)},
			"sad":   {GenreSeed: "acoustic", TargetValence: f64(0.2)},
			"chill": {GenreSeed: "chill", TargetEnergy: f64(0.3)},
		},
		fallback: Fallback,
	}
}

// FromConfig builds a [Table] from configured mood entries, falling back to
// [BuiltIn] when the configuration defines no moods.
func FromConfig(entries map[string]shared.MoodConfig) *Table {
	if len(entries) == 0 {
		return BuiltIn()
	}

	profiles := make(map[string]Profile, len(entries))
	for tag, entry := range entries {
		if entry.SeedGenres == "" {
			continue
		}
		profiles[tag] = Profile{
			GenreSeed:     entry.SeedGenres,
			TargetValence: entry.TargetValence,
			TargetEnergy:  entry.TargetEnergy,
		}
	}

	if len(profiles) == 0 {
		return BuiltIn()
	}

	return &Table{profiles: profiles, fallback: Fallback}
}

// Resolve returns the profile for the given tag, or the fallback profile when
// the tag is not configured.
func (t *Table) Resolve(tag string) Profile {
	if p, ok := t.profiles[tag]; ok {
		return p
	}
	return t.fallback
}

// Known reports whether the tag is present in the table.
func (t *Table) Known(tag string) bool {
	_, ok := t.profiles[tag]
	return ok
}

// Tags returns the configured mood tags in sorted order.
func (t *Table) Tags() []string {
	tags := make([]string, 0, len(t.profiles))
	for tag := range t.profiles {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
