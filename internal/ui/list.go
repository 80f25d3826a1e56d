package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/finchley/moodfm/internal/moods"
	"github.com/finchley/moodfm/internal/services"
)

var (
	_ list.Item = moodItem{}
	_ list.Item = trackItem{}
)

// moodItem wraps a mood tag and its [moods.Profile] to implement [list.Item].
type moodItem struct {
	tag     string
	profile moods.Profile
}

func (i moodItem) FilterValue() string { return i.tag }
func (i moodItem) Title() string       { return i.tag }
func (i moodItem) Description() string {
	desc := i.profile.GenreSeed
	if i.profile.TargetValence != nil {
		desc = fmt.Sprintf("%s • valence %.1f", desc, *i.profile.TargetValence)
	}
	if i.profile.TargetEnergy != nil {
		desc = fmt.Sprintf("%s • energy %.1f", desc, *i.profile.TargetEnergy)
	}
	return desc
}

// trackItem wraps [services.Track] to implement [list.Item].
type trackItem struct {
	track services.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	return strings.Join(i.track.Artists, ", ")
}
