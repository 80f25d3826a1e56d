// Package app sequences the mood-to-playback pipeline.
//
// The orchestrator decides between the logged-out and logged-in views on
// startup, and turns one mood selection into an ordered pipeline: fetch
// recommendations, render the result, then autoplay the first track. Failures
// are contained here and degrade the rendered outcome; only authentication
// failures escalate to a full logout.
package app

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/finchley/moodfm/internal/services"
	"github.com/finchley/moodfm/internal/shared"
)

// ViewState is the orchestrator's top-level view.
type ViewState int

const (
	LoggedOut ViewState = iota
	LoggedIn
)

func (v ViewState) String() string {
	if v == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

// UI is the rendering collaborator.
//
// The core drives it with status text and track lists; it never calls back
// into the core.
type UI interface {
	SetUser(displayName string)
	ShowStatus(message string)
	ShowError(message string)
	ShowLoading(message string)
	RenderTracks(tracks []services.Track)
}

// Catalog supplies profile and recommendation data.
//
// Implemented by [services.SpotifyClient].
type Catalog interface {
	Profile(ctx context.Context) (*services.UserProfile, error)
	Recommendations(ctx context.Context, moodTag string) ([]services.Track, error)
}

// Player controls the playback device.
//
// Implemented by [player.Controller].
type Player interface {
	Initialize(ctx context.Context) error
	Play(ctx context.Context, trackURI string) error
	Ready() bool
}

// SessionControl is the slice of the auth session the orchestrator needs.
type SessionControl interface {
	Authenticated() bool
	Logout()
}

// App is the session orchestrator.
type App struct {
	session SessionControl
	catalog Catalog
	player  Player
	ui      UI
	logger  *log.Logger

	view ViewState
}

// Opts contains configuration options for creating an [App].
type Opts struct {
	Session SessionControl
	Catalog Catalog
	Player  Player
	UI      UI
	Logger  *log.Logger
}

// New creates an [App] from the given collaborators.
func New(opts Opts) *App {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &App{
		session: opts.Session,
		catalog: opts.Catalog,
		player:  opts.Player,
		ui:      opts.UI,
		logger:  opts.Logger,
	}
}

// View returns the current top-level view.
func (a *App) View() ViewState {
	return a.view
}

// Start decides the initial view.
//
// Without a credential the app stays logged out. With one, the profile fetch
// must succeed to keep the session: a broken credential falls back to logged
// out rather than staying silently broken. Playback initialization runs
// independently; its failure is logged but never revokes the session.
func (a *App) Start(ctx context.Context) ViewState {
	if !a.session.Authenticated() {
		a.view = LoggedOut
		a.ui.ShowStatus("Log in to pick a mood.")
		return a.view
	}

	profile, err := a.catalog.Profile(ctx)
	if err != nil {
		a.logger.Error("profile fetch failed", "error", err)
		a.ui.ShowError("Failed to fetch user info. Try logging in again.")
		a.session.Logout()
		a.view = LoggedOut
		return a.view
	}

	a.ui.SetUser(profile.DisplayName)
	a.view = LoggedIn

	if err := a.player.Initialize(ctx); err != nil {
		a.logger.Warn("playback device unavailable", "error", err)
		a.ui.ShowStatus("Playback unavailable. You can still browse moods.")
	} else {
		a.ui.ShowStatus("Player ready!")
	}

	return a.view
}

// SelectMood runs the pipeline for one mood selection: fetch, render, then
// autoplay the first track. Each stage strictly follows the previous one.
func (a *App) SelectMood(ctx context.Context, moodTag string) {
	a.ui.ShowLoading("Loading songs...")

	tracks, err := a.catalog.Recommendations(ctx, moodTag)
	if err != nil {
		a.logger.Error("recommendation fetch failed", "mood", moodTag, "error", err)
		a.ui.RenderTracks(nil)
		a.ui.ShowError("Failed to get recommendations. Try logging in again.")
		return
	}

	a.ui.RenderTracks(tracks)

	if len(tracks) == 0 {
		a.ui.ShowStatus("No songs found for this mood.")
		return
	}

	if err := a.player.Play(ctx, tracks[0].PlayURI); err != nil {
		switch {
		case errors.Is(err, shared.ErrPlayerNotReady):
			a.ui.ShowError("Player not ready yet. Try again in a moment.")
		case errors.Is(err, shared.ErrTrackNotPlayable):
			a.ui.ShowError("Track not playable: remote playback needs a premium account.")
		default:
			a.logger.Error("autoplay failed", "mood", moodTag, "error", err)
			a.ui.ShowError("Playback failed.")
		}
	}
}
