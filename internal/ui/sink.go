package ui

import (
	"sync"

	"github.com/finchley/moodfm/internal/services"
)

// sink collects the rendered outcome of one orchestrator call.
//
// It implements [app.UI] for commands that run the pipeline inside a tea.Cmd
// closure; once the call returns, the snapshot becomes the payload of a single
// bubbletea message.
type sink struct {
	mu      sync.Mutex
	user    string
	status  string
	errText string
	tracks  []services.Track
}

func (s *sink) SetUser(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = name
}

func (s *sink) ShowStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
}

func (s *sink) ShowError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errText = msg
}

func (s *sink) ShowLoading(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
}

func (s *sink) RenderTracks(tracks []services.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks = tracks
}

// snapshot returns the collected state.
func (s *sink) snapshot() outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return outcome{user: s.user, status: s.status, errText: s.errText, tracks: s.tracks}
}

// outcome is the immutable result of one pipeline run.
type outcome struct {
	user    string
	status  string
	errText string
	tracks  []services.Track
}
