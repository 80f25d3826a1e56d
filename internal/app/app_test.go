package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/finchley/moodfm/internal/services"
	"github.com/finchley/moodfm/internal/shared"
)

// recordingUI captures every UI call in order.
type recordingUI struct {
	events []string
}

func (u *recordingUI) SetUser(name string)       { u.events = append(u.events, "user:"+name) }
func (u *recordingUI) ShowStatus(msg string)     { u.events = append(u.events, "status:"+msg) }
func (u *recordingUI) ShowError(msg string)      { u.events = append(u.events, "error:"+msg) }
func (u *recordingUI) ShowLoading(msg string)    { u.events = append(u.events, "loading:"+msg) }
func (u *recordingUI) RenderTracks(ts []services.Track) {
	u.events = append(u.events, fmt.Sprintf("tracks:%d", len(ts)))
}

func (u *recordingUI) has(prefix string) bool {
	for _, e := range u.events {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

func (u *recordingUI) index(prefix string) int {
	for i, e := range u.events {
		if strings.HasPrefix(e, prefix) {
			return i
		}
	}
	return -1
}

type fakeCatalog struct {
	profile    *services.UserProfile
	profileErr error
	tracks     []services.Track
	tracksErr  error
	fetches    int
}

func (c *fakeCatalog) Profile(ctx context.Context) (*services.UserProfile, error) {
	return c.profile, c.profileErr
}

func (c *fakeCatalog) Recommendations(ctx context.Context, moodTag string) ([]services.Track, error) {
	c.fetches++
	return c.tracks, c.tracksErr
}

type fakePlayer struct {
	initErr error
	playErr error
	played  []string
	ready   bool
}

func (p *fakePlayer) Initialize(ctx context.Context) error {
	if p.initErr == nil {
		p.ready = true
	}
	return p.initErr
}

func (p *fakePlayer) Play(ctx context.Context, uri string) error {
	if p.playErr != nil {
		return p.playErr
	}
	p.played = append(p.played, uri)
	return nil
}

func (p *fakePlayer) Ready() bool { return p.ready }

type fakeSession struct {
	authenticated bool
	loggedOut     bool
}

func (s *fakeSession) Authenticated() bool { return s.authenticated }
func (s *fakeSession) Logout()             { s.loggedOut = true; s.authenticated = false }

func newApp(session *fakeSession, catalog *fakeCatalog, player *fakePlayer) (*App, *recordingUI) {
	ui := &recordingUI{}
	return New(Opts{Session: session, Catalog: catalog, Player: player, UI: ui}), ui
}

func TestStart(t *testing.T) {
	t.Run("No Credential", func(t *testing.T) {
		app, ui := newApp(&fakeSession{}, &fakeCatalog{}, &fakePlayer{})

		if view := app.Start(context.Background()); view != LoggedOut {
			t.Errorf("expected logged out view, got %v", view)
		}
		if ui.has("user:") {
			t.Error("expected no user rendering while logged out")
		}
	})

	t.Run("Profile Fetch Success", func(t *testing.T) {
		session := &fakeSession{authenticated: true}
		catalog := &fakeCatalog{profile: &services.UserProfile{DisplayName: "Ada"}}
		player := &fakePlayer{}
		app, ui := newApp(session, catalog, player)

		if view := app.Start(context.Background()); view != LoggedIn {
			t.Errorf("expected logged in view, got %v", view)
		}
		if !ui.has("user:Ada") {
			t.Errorf("expected display name rendered, got %v", ui.events)
		}
		if !ui.has("status:Player ready!") {
			t.Errorf("expected player ready status, got %v", ui.events)
		}
	})

	t.Run("Profile Fetch Failure Falls Back To Logged Out", func(t *testing.T) {
		session := &fakeSession{authenticated: true}
		catalog := &fakeCatalog{profileErr: shared.ErrAPIRequest}
		app, ui := newApp(session, catalog, &fakePlayer{})

		if view := app.Start(context.Background()); view != LoggedOut {
			t.Errorf("expected fallback to logged out, got %v", view)
		}
		if !session.loggedOut {
			t.Error("expected session logout on profile failure")
		}
		if !ui.has("error:") {
			t.Error("expected a visible error message")
		}
	})

	t.Run("Player Init Failure Keeps Session", func(t *testing.T) {
		session := &fakeSession{authenticated: true}
		catalog := &fakeCatalog{profile: &services.UserProfile{DisplayName: "Ada"}}
		player := &fakePlayer{initErr: shared.ErrDeviceNotFound}
		app, ui := newApp(session, catalog, player)

		if view := app.Start(context.Background()); view != LoggedIn {
			t.Errorf("expected session kept despite playback failure, got %v", view)
		}
		if session.loggedOut {
			t.Error("playback failure must not revoke the session")
		}
		if !ui.has("status:Playback unavailable") {
			t.Errorf("expected playback-unavailable status, got %v", ui.events)
		}
	})
}

func TestSelectMood(t *testing.T) {
	t.Run("Fetch Render Autoplay Order", func(t *testing.T) {
		catalog := &fakeCatalog{tracks: []services.Track{
			{Name: "First", PlayURI: "spotify:track:first"},
			{Name: "Second", PlayURI: "spotify:track:second"},
		}}
		player := &fakePlayer{}
		app, ui := newApp(&fakeSession{authenticated: true}, catalog, player)

		app.SelectMood(context.Background(), "happy")

		loading := ui.index("loading:")
		rendered := ui.index("tracks:")
		if loading == -1 || rendered == -1 || loading > rendered {
			t.Errorf("expected loading before rendering, got %v", ui.events)
		}
		if len(player.played) != 1 || player.played[0] != "spotify:track:first" {
			t.Errorf("expected autoplay of first track, got %v", player.played)
		}
	})

	t.Run("Empty Result", func(t *testing.T) {
		catalog := &fakeCatalog{tracks: []services.Track{}}
		player := &fakePlayer{}
		app, ui := newApp(&fakeSession{authenticated: true}, catalog, player)

		app.SelectMood(context.Background(), "happy")

		if !ui.has("status:No songs found for this mood.") {
			t.Errorf("expected no-songs message, got %v", ui.events)
		}
		if len(player.played) != 0 {
			t.Error("expected no playback attempt for an empty result")
		}
	})

	t.Run("Fetch Failure Renders Empty With Message", func(t *testing.T) {
		catalog := &fakeCatalog{tracksErr: shared.ErrAPIRequest}
		player := &fakePlayer{}
		app, ui := newApp(&fakeSession{authenticated: true}, catalog, player)

		app.SelectMood(context.Background(), "happy")

		if !ui.has("tracks:0") {
			t.Errorf("expected empty track rendering, got %v", ui.events)
		}
		if !ui.has("error:Failed to get recommendations") {
			t.Errorf("expected visible failure message, got %v", ui.events)
		}
		if len(player.played) != 0 {
			t.Error("expected no playback attempt after a failed fetch")
		}
	})

	t.Run("Player Not Ready", func(t *testing.T) {
		catalog := &fakeCatalog{tracks: []services.Track{{PlayURI: "spotify:track:t"}}}
		player := &fakePlayer{playErr: shared.ErrPlayerNotReady}
		app, ui := newApp(&fakeSession{authenticated: true}, catalog, player)

		app.SelectMood(context.Background(), "happy")

		if !ui.has("error:Player not ready") {
			t.Errorf("expected not-ready message, got %v", ui.events)
		}
	})

	t.Run("Track Not Playable", func(t *testing.T) {
		catalog := &fakeCatalog{tracks: []services.Track{{PlayURI: "spotify:track:t"}}}
		player := &fakePlayer{playErr: shared.ErrTrackNotPlayable}
		app, ui := newApp(&fakeSession{authenticated: true}, catalog, player)

		app.SelectMood(context.Background(), "happy")

		if !ui.has("error:Track not playable") {
			t.Errorf("expected not-playable message, got %v", ui.events)
		}
	})
}
