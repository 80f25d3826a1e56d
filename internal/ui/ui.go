package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/finchley/moodfm/internal/app"
	"github.com/finchley/moodfm/internal/moods"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MoodListView ViewState = iota
	TrackListView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	core      *app.App
	sink      *sink
	table     *moods.Table
	width     int
	height    int
	moodList  list.Model
	trackList list.Model
	user      string
	status    string
	errText   string
	loading   bool
	help      help.Model
	keys      keyMap
}

// ModelOpts contains the collaborators a [Model] drives.
type ModelOpts struct {
	Session app.SessionControl
	Catalog app.Catalog
	Player  app.Player
	Moods   *moods.Table
}

type startedMsg struct {
	view app.ViewState
	out  outcome
}

type moodPlayedMsg struct {
	tag string
	out outcome
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	s := &sink{}
	core := app.New(app.Opts{
		Session: opts.Session,
		Catalog: opts.Catalog,
		Player:  opts.Player,
		UI:      s,
	})

	table := opts.Moods
	if table == nil {
		table = moods.BuiltIn()
	}

	tags := table.Tags()
	items := make([]list.Item, len(tags))
	for i, tag := range tags {
		items[i] = moodItem{tag: tag, profile: table.Resolve(tag)}
	}
	moodList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	moodList.Title = "Pick a mood"
	moodList.SetShowHelp(false)

	return &Model{
		ctx:      ctx,
		view:     MoodListView,
		core:     core,
		sink:     s,
		table:    table,
		moodList: moodList,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the session and decides the initial view.
func (m *Model) Init() tea.Cmd {
	return m.start()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.moodList.SetSize(msg.Width-4, msg.Height-8)
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MoodListView:
			return m.handleMoodListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		}

	case startedMsg:
		m.user = msg.out.user
		m.status = msg.out.status
		m.errText = msg.out.errText
		if msg.view == app.LoggedOut && m.status == "" {
			m.status = "Not logged in. Run 'moodfm auth login' first."
		}
		return m, nil

	case moodPlayedMsg:
		m.loading = false
		m.status = msg.out.status
		m.errText = msg.out.errText
		items := make([]list.Item, len(msg.out.tracks))
		for i, track := range msg.out.tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Songs for '%s'", msg.tag)
		m.trackList.SetShowHelp(false)
		m.trackList.SetSize(m.width-4, m.height-8)
		if len(msg.out.tracks) > 0 {
			m.view = TrackListView
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MoodListView:
		return m.renderMoodList()
	case TrackListView:
		return m.renderTrackList()
	default:
		return ""
	}
}

func (m *Model) handleMoodListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.loading {
			return m, nil
		}
		selected := m.moodList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(moodItem); ok {
				m.loading = true
				m.status = "Loading songs..."
				m.errText = ""
				return m, m.playMood(item.tag)
			}
		}
	}

	var cmd tea.Cmd
	m.moodList, cmd = m.moodList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MoodListView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MoodListView:
		m.moodList, cmd = m.moodList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) start() tea.Cmd {
	return func() tea.Msg {
		view := m.core.Start(m.ctx)
		return startedMsg{view: view, out: m.sink.snapshot()}
	}
}

func (m *Model) playMood(tag string) tea.Cmd {
	return func() tea.Msg {
		m.core.SelectMood(m.ctx, tag)
		return moodPlayedMsg{tag: tag, out: m.sink.snapshot()}
	}
}

func (m *Model) renderMoodList() string {
	header := styles.title.Render("moodfm")
	if m.user != "" {
		header = fmt.Sprintf("%s  %s", header, styles.help.Render("logged in as "+m.user))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", header, m.moodList.View(), m.renderStatus(), helpView)
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", m.trackList.View(), m.renderStatus(), helpView)
}

func (m *Model) renderStatus() string {
	if m.errText != "" {
		return styles.err.Render(m.errText)
	}
	if m.loading {
		return styles.warn.Render(m.status)
	}
	if m.status != "" {
		return styles.ok.Render(m.status)
	}
	return ""
}
