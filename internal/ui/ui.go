package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/musik/internal/webclient"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ArtistView ViewState = iota
	AlbumView
)

func (v ViewState) String() string {
	switch v {
	case ArtistView:
		return "Artists"
	case AlbumView:
		return "Albums"
	default:
		return "Unknown"
	}
}

// views is the tab order.
var views = []ViewState{ArtistView, AlbumView}

// source returns the list endpoint and display field backing v.
func (v ViewState) source() webclient.ListSource {
	if v == AlbumView {
		return webclient.AlbumSource
	}
	return webclient.ArtistSource
}

func (v ViewState) detail() string {
	if v == AlbumView {
		return "releasecountry"
	}
	return "musicbrainz_artistid"
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	api     webclient.Requester
	width   int
	height  int
	lists   map[ViewState]*list.Model
	loading map[ViewState]bool
	errs    map[ViewState]error
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model that reads the library through api.
func NewModel(ctx context.Context, api webclient.Requester) *Model {
	m := &Model{
		ctx:     ctx,
		view:    ArtistView,
		api:     api,
		lists:   make(map[ViewState]*list.Model, len(views)),
		loading: make(map[ViewState]bool, len(views)),
		errs:    make(map[ViewState]error, len(views)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
	for _, v := range views {
		l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
		l.Title = v.String()
		l.SetShowHelp(false)
		m.lists[v] = &l
	}
	return m
}

// Init fetches both lists.
func (m *Model) Init() tea.Cmd {
	return m.reload()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range m.lists {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if m.current().FilterState() == list.Filtering {
			return m.updateList(msg)
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.next):
			m.view = views[(int(m.view)+1)%len(views)]
			return m, nil
		case key.Matches(msg, m.keys.reload):
			return m, m.reload()
		}

	case Msg:
		if msg.kind == MsgRecordsFetched {
			m.applyRecords(msg.data.(recordsFetched))
		}
		return m, nil
	}

	return m.updateList(msg)
}

// applyRecords replaces a view's items. A failed fetch keeps the previous items.
func (m *Model) applyRecords(r recordsFetched) {
	m.loading[r.view] = false
	if r.err != nil {
		m.errs[r.view] = r.err
		return
	}

	m.errs[r.view] = nil
	src := r.view.source()
	m.lists[r.view].SetItems(recordItems(r.records, src.Field, r.view.detail()))
}

func (m *Model) current() *list.Model { return m.lists[m.view] }

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	l, cmd := m.current().Update(msg)
	*m.lists[m.view] = l
	return m, cmd
}

func (m *Model) reload() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(views))
	for _, v := range views {
		m.loading[v] = true
		cmds = append(cmds, m.fetch(v))
	}
	return tea.Batch(cmds...)
}

func (m *Model) fetch(v ViewState) tea.Cmd {
	endpoint := v.source().Endpoint
	return func() tea.Msg {
		records, err := webclient.Fetch(m.ctx, m.api, endpoint)
		return recordsFetchedMsg(v, records, err)
	}
}

// View renders the tab bar, the current list and the help line.
func (m *Model) View() string {
	tabs := make([]string, len(views))
	for i, v := range views {
		label := v.String()
		if m.loading[v] {
			label += "…"
		}
		if v == m.view {
			tabs[i] = styles.tab.Render(label)
		} else {
			tabs[i] = styles.inactive.Render(label)
		}
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(strings.Join(tabs, "  ")))
	b.WriteString("\n")
	if err := m.errs[m.view]; err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", err)))
		b.WriteString("\n")
	}
	b.WriteString(m.current().View())
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}
