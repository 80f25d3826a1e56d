package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/finchley/moodfm/internal/app"
	"github.com/finchley/moodfm/internal/services"
	"github.com/finchley/moodfm/internal/shared"
	"github.com/urfave/cli/v3"
)

// consoleUI renders orchestrator output as plain terminal text.
type consoleUI struct {
	runner *Runner
	tracks []services.Track
}

func (u *consoleUI) SetUser(name string) {
	u.runner.writePlain("Logged in as %s\n", name)
}

func (u *consoleUI) ShowStatus(msg string) {
	u.runner.writePlain("%s\n", msg)
}

func (u *consoleUI) ShowError(msg string) {
	u.runner.writePlain("✗ %s\n", msg)
}

func (u *consoleUI) ShowLoading(msg string) {
	u.runner.writePlain("%s\n", msg)
}

func (u *consoleUI) RenderTracks(tracks []services.Track) {
	u.tracks = tracks
	for i, track := range tracks {
		u.runner.writePlain("%d. %s - %s\n", i+1, strings.Join(track.Artists, ", "), track.Name)
	}
}

// Play fetches recommendations for a mood and plays the first track.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	moodTag := cmd.StringArg("mood")
	if moodTag == "" {
		return fmt.Errorf("%w: mood argument is required (see 'moodfm moods')", shared.ErrMissingArgument)
	}

	if r.client == nil || r.player == nil {
		return fmt.Errorf("%w: Spotify client not initialized", shared.ErrMissingCredentials)
	}

	ui := &consoleUI{runner: r}
	pipeline := app.New(app.Opts{
		Session: r.session,
		Catalog: r.client,
		Player:  r.player,
		UI:      ui,
		Logger:  r.logger,
	})

	if pipeline.Start(ctx) != app.LoggedIn {
		return fmt.Errorf("%w: run 'moodfm auth login' first", shared.ErrNotAuthenticated)
	}

	pipeline.SelectMood(ctx, moodTag)

	if cmd.Bool("json") {
		return r.writeJSON(ui.tracks, true)
	}

	return nil
}

// Moods lists the configured mood tags and their recommendation profiles.
func (r *Runner) Moods(ctx context.Context, cmd *cli.Command) error {
	tags := r.moods.Tags()

	if cmd.Bool("json") {
		entries := make(map[string]map[string]any, len(tags))
		for _, tag := range tags {
			profile := r.moods.Resolve(tag)
			entry := map[string]any{"seed_genres": profile.GenreSeed}
			if profile.TargetValence != nil {
				entry["target_valence"] = *profile.TargetValence
			}
			if profile.TargetEnergy != nil {
				entry["target_energy"] = *profile.TargetEnergy
			}
			entries[tag] = entry
		}
		return r.writeJSON(entries, true)
	}

	r.writePlain("Available moods:\n\n")
	for _, tag := range tags {
		profile := r.moods.Resolve(tag)
		r.writePlain("  %s (%s", tag, profile.GenreSeed)
		if profile.TargetValence != nil {
			r.writePlain(", valence %.1f", *profile.TargetValence)
		}
		if profile.TargetEnergy != nil {
			r.writePlain(", energy %.1f", *profile.TargetEnergy)
		}
		r.writePlain(")\n")
	}

	return nil
}

// Profile shows the authenticated user's Spotify profile.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	if r.client == nil {
		return fmt.Errorf("%w: Spotify client not initialized", shared.ErrMissingCredentials)
	}

	profile, err := r.client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}

	r.writePlain("Display name: %s\n", profile.DisplayName)
	r.writePlain("ID: %s\n", profile.ID)
	if profile.Product != "" {
		r.writePlain("Product: %s\n", profile.Product)
	}

	return nil
}

// Devices lists the remote playback devices visible to the account.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	if r.client == nil {
		return fmt.Errorf("%w: Spotify client not initialized", shared.ErrMissingCredentials)
	}

	devices, err := r.client.Devices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(devices, true)
	}

	if len(devices) == 0 {
		return r.writePlain("No playback devices found. Open Spotify on a device first.\n")
	}

	r.writePlain("Found %d devices:\n\n", len(devices))
	for i, d := range devices {
		marker := " "
		if d.Active {
			marker = "*"
		}
		r.writePlain("%s %d. %s (%s)\n", marker, i+1, d.Name, d.Type)
	}

	return nil
}
