package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/airwaves/internal/prefs"
	"github.com/five82/airwaves/internal/radiobrowser"
	"github.com/five82/airwaves/internal/state"
)

// stubFetcher answers FetchListingBlocking with fixed stations and records
// the filters it was asked for.
type stubFetcher struct {
	mu       sync.Mutex
	filters  []radiobrowser.ListingFilter
	stations []radiobrowser.Station
	err      error
	during   func()
}

func (f *stubFetcher) DiscoverMirrors(context.Context) ([]string, error) { return nil, nil }

func (f *stubFetcher) QueryStations(context.Context, []string, radiobrowser.ListingFilter) ([]radiobrowser.Station, error) {
	return nil, nil
}

func (f *stubFetcher) FetchListing(ctx context.Context, filter radiobrowser.ListingFilter) <-chan radiobrowser.Result {
	ch := make(chan radiobrowser.Result, 1)
	stations, err := f.FetchListingBlocking(ctx, filter)
	ch <- radiobrowser.Result{Stations: stations, Err: err}
	close(ch)
	return ch
}

func (f *stubFetcher) FetchListingBlocking(_ context.Context, filter radiobrowser.ListingFilter) ([]radiobrowser.Station, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	during := f.during
	f.mu.Unlock()
	if during != nil {
		during()
	}
	return f.stations, f.err
}

func (f *stubFetcher) seen() []radiobrowser.ListingFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]radiobrowser.ListingFilter(nil), f.filters...)
}

var sampleStations = []radiobrowser.Station{
	{Name: "Jazz Radio", URL: "http://jazz/stream", Tags: radiobrowser.String("jazz,smooth"), Country: radiobrowser.String("France"), LastCheckOK: radiobrowser.Bool(true)},
	{Name: "Talk FM", URL: "http://talk/stream", Tags: radiobrowser.String("news,talk")},
}

type testEnv struct {
	store     *state.Store
	fetcher   *stubFetcher
	prefsPath string
	logPath   string
}

// newTestModel builds a sized model whose store already holds stations and
// a two-station page filter ordered by votes.
func newTestModel(t *testing.T, stations []radiobrowser.Station) (Model, *testEnv) {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		store:     &state.Store{},
		fetcher:   &stubFetcher{stations: []radiobrowser.Station{{Name: "Fetched", URL: "http://fetched"}}},
		prefsPath: filepath.Join(dir, "prefs.toml"),
		logPath:   filepath.Join(dir, "airwaves.log"),
	}
	env.store.SetFilter(radiobrowser.ListingFilter{
		Limit:  radiobrowser.Int(2),
		Offset: radiobrowser.Int(0),
		Order:  radiobrowser.String("votes"),
	})
	if stations != nil {
		env.store.Update(stations, nil)
	}

	m := New(Options{
		Fetcher:   env.fetcher,
		Store:     env.store,
		PageSize:  2,
		PrefsPath: env.prefsPath,
		LogPath:   env.logPath,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, snapshotMsg(env.store.Snapshot()))
	return m, env
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want ui.Model", next)
	}
	return model
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// runCmd executes cmd and any batched commands, returning every message.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestView_LoadingBeforeSize(t *testing.T) {
	m := New(Options{Store: &state.Store{}})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() = %q, want Loading...", got)
	}
}

func TestView_RendersStations(t *testing.T) {
	m, _ := newTestModel(t, sampleStations)

	view := m.View()
	for _, want := range []string{"airwaves", "NAME", "Jazz Radio", "Talk FM", "Details"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q", want)
		}
	}
}

func TestView_ConnectingWithoutListing(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if view := m.View(); !strings.Contains(view, "Contacting") {
		t.Fatalf("View() should show the connecting header")
	}
}

func TestSnapshot_SelectsFirstStation(t *testing.T) {
	m, _ := newTestModel(t, sampleStations)

	st, ok := m.selectedStation()
	if !ok || st.Name != "Jazz Radio" {
		t.Fatalf("selectedStation() = %q, %v; want Jazz Radio", st.Name, ok)
	}

	m, _ = press(t, m, "j")
	if st, _ := m.selectedStation(); st.Name != "Talk FM" {
		t.Fatalf("after j selectedStation() = %q, want Talk FM", st.Name)
	}
}

func TestNextPage_ShiftsOffsetAndFetches(t *testing.T) {
	m, env := newTestModel(t, sampleStations)

	m, cmd := press(t, m, "n")
	if cmd == nil {
		t.Fatalf("n returned no command")
	}
	if !m.fetching {
		t.Fatalf("model should be fetching after n")
	}
	if got := env.store.Filter().Encode(); got != "limit=2&offset=2&order=votes" {
		t.Fatalf("store filter = %q, want offset 2", got)
	}

	msgs := runCmd(cmd)
	seen := env.fetcher.seen()
	if len(seen) != 1 || seen[0].Encode() != "limit=2&offset=2&order=votes" {
		t.Fatalf("fetcher saw %v, want the next page", seen)
	}
	for _, msg := range msgs {
		m = update(t, m, msg)
	}
	if m.fetching {
		t.Fatalf("fetching should clear once the fetch is done")
	}
	if snap := env.store.Snapshot(); len(snap.Stations) != 1 || snap.Stations[0].Name != "Fetched" {
		t.Fatalf("store stations = %#v, want the fetched page", snap.Stations)
	}
	if _, err := os.Stat(env.prefsPath); !os.IsNotExist(err) {
		t.Fatalf("paging should not write preferences, stat err = %v", err)
	}
}

func TestNextPage_StopsOnShortPage(t *testing.T) {
	m, env := newTestModel(t, sampleStations[:1])

	_, cmd := press(t, m, "n")
	if cmd != nil {
		t.Fatalf("n on a short page returned a command")
	}
	if got := env.store.Filter().Encode(); got != "limit=2&offset=0&order=votes" {
		t.Fatalf("store filter = %q, want unchanged", got)
	}
}

func TestPrevPage(t *testing.T) {
	m, env := newTestModel(t, sampleStations)

	if _, cmd := press(t, m, "p"); cmd != nil {
		t.Fatalf("p on the first page returned a command")
	}

	env.store.SetFilter(env.store.Filter().WithOffset(3))
	_, cmd := press(t, m, "p")
	if cmd == nil {
		t.Fatalf("p returned no command")
	}
	if got := env.store.Filter().Encode(); got != "limit=2&offset=1&order=votes" {
		t.Fatalf("store filter = %q, want offset 1", got)
	}
}

func TestCycleOrder_ResetsOffsetAndRemembersChoice(t *testing.T) {
	m, env := newTestModel(t, sampleStations)
	env.store.SetFilter(env.store.Filter().WithOffset(4))

	m, cmd := press(t, m, "o")
	if got := env.store.Filter().Encode(); got != "limit=2&offset=0&order=clickcount" {
		t.Fatalf("store filter = %q, want clickcount from offset 0", got)
	}

	for _, msg := range runCmd(cmd) {
		if saved, ok := msg.(prefsSavedMsg); ok && saved.err != nil {
			t.Fatalf("saving prefs failed: %v", saved.err)
		}
	}
	if len(env.fetcher.seen()) != 1 {
		t.Fatalf("fetcher called %d times, want 1", len(env.fetcher.seen()))
	}

	saved, err := prefs.Load(env.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Order == nil || *saved.Order != "clickcount" {
		t.Fatalf("saved order = %v, want clickcount", saved.Order)
	}
	if m.prefs.Order == nil || *m.prefs.Order != "clickcount" {
		t.Fatalf("model prefs order = %v, want clickcount", m.prefs.Order)
	}
}

func TestToggleReverseAndBroken(t *testing.T) {
	m, env := newTestModel(t, sampleStations)

	m, _ = press(t, m, "r")
	if f := env.store.Filter(); f.Reverse == nil || !*f.Reverse {
		t.Fatalf("reverse = %v, want true", f.Reverse)
	}

	_, _ = press(t, m, "b")
	if f := env.store.Filter(); f.HideBroken == nil || !*f.HideBroken {
		t.Fatalf("hidebroken = %v, want true", f.HideBroken)
	}
}

func TestFetch_DropsSupersededResult(t *testing.T) {
	m, env := newTestModel(t, sampleStations)
	env.fetcher.during = func() {
		env.store.SetFilter(env.store.Filter().WithOffset(10))
	}

	_, cmd := press(t, m, "R")
	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	done, ok := msgs[0].(fetchDoneMsg)
	if !ok || done.applied {
		t.Fatalf("message = %#v, want an unapplied fetchDoneMsg", msgs[0])
	}
	if snap := env.store.Snapshot(); snap.Stations[0].Name != "Jazz Radio" {
		t.Fatalf("superseded result replaced the listing: %#v", snap.Stations)
	}
}

func TestSearch_FiltersLoadedPage(t *testing.T) {
	m, env := newTestModel(t, sampleStations)

	m, _ = press(t, m, "/")
	if !m.searching {
		t.Fatalf("/ should open the search prompt")
	}
	m, _ = press(t, m, "news")
	m, _ = press(t, m, "enter")

	if m.searching {
		t.Fatalf("enter should close the search prompt")
	}
	if len(m.visible) != 1 || m.visible[0].Name != "Talk FM" {
		t.Fatalf("visible = %#v, want [Talk FM]", m.visible)
	}
	if len(env.fetcher.seen()) != 0 {
		t.Fatalf("search must not fetch")
	}

	m, _ = press(t, m, "esc")
	if m.query != "" || len(m.visible) != 2 {
		t.Fatalf("esc should clear the search, query=%q visible=%d", m.query, len(m.visible))
	}
}

func TestThemeCycle_PersistsTheme(t *testing.T) {
	m, env := newTestModel(t, sampleStations)
	start := m.theme.Name

	m, cmd := press(t, m, "T")
	if m.theme.Name != NextTheme(start) {
		t.Fatalf("theme = %q, want %q", m.theme.Name, NextTheme(start))
	}
	runCmd(cmd)

	saved, err := prefs.Load(env.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", saved.Theme, m.theme.Name)
	}
}

func TestHelp_OpensAndClosesOnAnyKey(t *testing.T) {
	m, _ := newTestModel(t, sampleStations)

	m, _ = press(t, m, "?")
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("? should show the help overlay")
	}
	m, _ = press(t, m, "x")
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, sampleStations)
	_, cmd := press(t, m, "e")
	if cmd == nil {
		t.Fatalf("e returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("e should quit")
	}
}

func TestLogs_ShowsTailAndWarningsOnly(t *testing.T) {
	m, env := newTestModel(t, sampleStations)
	body := "level=info msg=hello\nlevel=warning msg=careful\n"
	if err := os.WriteFile(env.logPath, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, cmd := press(t, m, "l")
	if m.currentView != ViewLogs {
		t.Fatalf("l should open the log view")
	}
	for _, msg := range runCmd(cmd) {
		m = update(t, m, msg)
	}
	if len(m.logLines) != 2 {
		t.Fatalf("logLines = %d, want 2", len(m.logLines))
	}

	m, _ = press(t, m, "w")
	view := m.logView.View()
	if !strings.Contains(view, "careful") || strings.Contains(view, "hello") {
		t.Fatalf("warnings-only view = %q", view)
	}

	m, _ = press(t, m, "l")
	if m.currentView != ViewStations {
		t.Fatalf("l in the log view should return to stations")
	}
}
