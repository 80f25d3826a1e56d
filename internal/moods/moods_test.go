package moods

import (
	"testing"

	"github.com/finchley/moodfm/internal/shared"
)

func TestTable(t *testing.T) {
	t.Run("BuiltIn", func(t *testing.T) {
		table := BuiltIn()

		t.Run("Happy", func(t *testing.T) {
			p := table.Resolve("happy")
			if p.GenreSeed != "pop" {
				t.Errorf("expected genre seed 'pop', got %s", p.GenreSeed)
			}
			if p.TargetValence == nil || *p.TargetValence != 0.9 {
				t.Errorf("expected target valence 0.9, got %v", p.TargetValence)
			}
			if p.TargetEnergy != nil {
				t.Errorf("expected no target energy, got %v", *p.TargetEnergy)
			}
		})

		t.Run("Chill Uses Energy Not Valence", func(t *testing.T) {
			p := table.Resolve("chill")
			if p.GenreSeed != "chill" {
				t.Errorf("expected genre seed 'chill', got %s", p.GenreSeed)
			}
			if p.TargetValence != nil {
				t.Errorf("expected no target valence, got %v", *p.TargetValence)
			}
			if p.TargetEnergy == nil || *p.TargetEnergy != 0.3 {
				t.Errorf("expected target energy 0.3, got %v", p.TargetEnergy)
			}
		})

		t.Run("Unknown Tag Falls Back", func(t *testing.T) {
			p := table.Resolve("melancholic")
			if p.GenreSeed != Fallback.GenreSeed {
				t.Errorf("expected fallback genre %s, got %s", Fallback.GenreSeed, p.GenreSeed)
			}
			if table.Known("melancholic") {
				t.Error("expected unknown tag to not be known")
			}
		})

		t.Run("Tags Sorted", func(t *testing.T) {
			tags := table.Tags()
			expected := []string{"chill", "happy", "sad"}
			if len(tags) != len(expected) {
				t.Fatalf("expected %d tags, got %d", len(expected), len(tags))
			}
			for i, tag := range expected {
				if tags[i] != tag {
					t.Errorf("expected tag %s at index %d, got %s", tag, i, tags[i])
				}
			}
		})
	})

	t.Run("FromConfig", func(t *testing.T) {
		t.Run("Empty Config Uses Built-Ins", func(t *testing.T) {
			table := FromConfig(nil)
			if !table.Known("happy") {
				t.Error("expected built-in moods when config has none")
			}
		})

		t.Run("Configured Moods Replace Built-Ins", func(t *testing.T) {
			valence := 0.5
			table := FromConfig(map[string]shared.MoodConfig{
				"focus": {SeedGenres: "ambient", TargetValence: &valence},
			})

			p := table.Resolve("focus")
			if p.GenreSeed != "ambient" {
				t.Errorf("expected genre seed 'ambient', got %s", p.GenreSeed)
			}
			if table.Known("happy") {
				t.Error("built-in moods should not survive a configured table")
			}
		})

		t.Run("Entries Without Seed Are Skipped", func(t *testing.T) {
			table := FromConfig(map[string]shared.MoodConfig{
				"broken": {},
			})
			if table.Known("broken") {
				t.Error("expected entry without seed genre to be skipped")
			}
			if !table.Known("happy") {
				t.Error("expected built-ins when all entries are invalid")
			}
		})
	})
}
