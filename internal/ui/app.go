package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/airwaves/internal/logtail"
	"github.com/five82/airwaves/internal/prefs"
	"github.com/five82/airwaves/internal/radiobrowser"
	"github.com/five82/airwaves/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewStations View = iota
	ViewLogs
)

const (
	defaultPageSize = 100
	defaultTick     = time.Second
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Fetcher   radiobrowser.StationFetcher
	Store     *state.Store
	PageSize  int
	Tick      time.Duration // how often the store is re-read
	ThemeName string
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	fetcher   radiobrowser.StationFetcher
	store     *state.Store
	pageSize  int
	tick      time.Duration
	prefs     prefs.Prefs
	prefsPath string
	logPath   string

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	help        help.Model
	notice      string // transient message shown in the command bar

	// Data state
	snapshot state.Snapshot
	visible  []radiobrowser.Station // snapshot stations after the local search
	fetching bool

	// Stations view
	table  table.Model
	detail viewport.Model

	// Search
	search    textinput.Model
	searching bool
	query     string

	// Logs view
	logView     viewport.Model
	logLines    []logtail.Line
	logWarnOnly bool
	logFollow   bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	keys := DefaultKeyMap()
	theme := GetTheme(opts.ThemeName)

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "name or tag"
	search.CharLimit = 64

	m := Model{
		ctx:         ctx,
		fetcher:     opts.Fetcher,
		store:       opts.Store,
		pageSize:    pageSize,
		tick:        tick,
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		keys:        keys,
		theme:       theme,
		currentView: ViewStations,
		help:        help.New(),
		search:      search,
		logFollow:   true,
		table:       newStationTable(keys, theme),
		detail:      viewport.New(40, 10),
		logView:     viewport.New(80, 20),
	}
	m.refreshDetail()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case fetchDoneMsg:
		m.fetching = false
		if msg.err != nil && msg.applied {
			m.notice = "fetch failed: " + describeError(msg.err)
		}
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.notice = "could not save preferences: " + msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	m.notice = ""

	switch msg.String() {
	case "ctrl+c", "e":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.table.SetStyles(tableStyles(m.theme))
		m.prefs.Theme = m.theme.Name
		m.refreshDetail()
		m.renderLogLines()
		return m, m.savePrefsCmd()

	case "l":
		if m.currentView == ViewLogs {
			m.currentView = ViewStations
			return m, nil
		}
		m.currentView = ViewLogs
		return m, m.refreshLogs()

	case "esc":
		m.currentView = ViewStations
		if m.query != "" {
			m.query = ""
			m.search.SetValue("")
			m.refreshVisible()
		}
		return m, nil
	}

	switch m.currentView {
	case ViewStations:
		return m.handleStationsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

// handleTick re-reads the store and, when following, the log file.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.logFollow {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(m.tick))
	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.refreshVisible()
}

// resize recomputes component sizes after a window change.
func (m *Model) resize() {
	contentHeight := m.contentHeight()
	tableWidth, detailWidth := m.paneWidths()

	m.table.SetColumns(stationColumns(tableWidth - 2))
	m.table.SetWidth(tableWidth - 2)
	m.table.SetHeight(maxInt(contentHeight-2, 1))

	m.detail.Width = maxInt(detailWidth-4, 1)
	m.detail.Height = maxInt(contentHeight-2, 1)
	m.refreshDetail()

	m.logView.Width = maxInt(m.width-4, 1)
	m.logView.Height = maxInt(contentHeight-2, 1)
	m.renderLogLines()
}

// contentHeight is the space left below the header and command bar.
func (m Model) contentHeight() int {
	return maxInt(m.height-2, 3)
}

// paneWidths splits the width between the table and the detail pane.
func (m Model) paneWidths() (int, int) {
	tableWidth := m.width * 60 / 100
	if m.width >= 160 {
		tableWidth = m.width * 55 / 100
	}
	return tableWidth, m.width - tableWidth
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderStations())
	}

	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// fetchDoneMsg reports a UI-triggered fetch. applied is false when the
// filter changed again before the fetch finished.
type fetchDoneMsg struct {
	applied bool
	err     error
}

type prefsSavedMsg struct {
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// fetchStationsCmd runs one blocking listing fetch off the update loop and
// stores the result if filter is still current.
func fetchStationsCmd(ctx context.Context, fetcher radiobrowser.StationFetcher, store *state.Store, filter radiobrowser.ListingFilter) tea.Cmd {
	return func() tea.Msg {
		stations, err := fetcher.FetchListingBlocking(ctx, filter)
		if ctx.Err() != nil {
			return fetchDoneMsg{err: ctx.Err()}
		}
		applied := store.UpdateFor(filter, stations, err)
		return fetchDoneMsg{applied: applied, err: err}
	}
}

func (m Model) savePrefsCmd() tea.Cmd {
	path, p := m.prefsPath, m.prefs
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		// Cancelled from outside (signal); not a UI failure.
		return nil
	}
	return err
}
