// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for mood playback:
//  1. [MoodListView] : Browse the available moods
//  2. [TrackListView] : Review the fetched recommendations while the first track plays
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Pipeline work runs inside tea.Cmd closures against the session orchestrator; each
// command captures the rendered outcome through an [app.UI] sink and delivers it as
// a single message.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual
// help displayed via charmbracelet/bubbles/help.
package ui
