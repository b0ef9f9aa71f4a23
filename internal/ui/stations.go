package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/airwaves/internal/radiobrowser"
)

// sortOrders is the cycle behind the o key. Values are radio-browser order
// field names.
var sortOrders = []string{"votes", "clickcount", "name", "bitrate", "lastcheckok"}

// Fixed column widths; the name column takes the rest.
const (
	countryWidth = 14
	codecWidth   = 6
	bitrateWidth = 9
	votesWidth   = 7
	healthWidth  = 6
	minNameWidth = 10
	cellPadding  = 2 // table.DefaultStyles pads cells by one on each side
)

// StationHeaders returns the column titles shared by the TUI table and the
// -list output.
func StationHeaders() []string {
	return []string{"NAME", "COUNTRY", "CODEC", "BITRATE", "VOTES", "OK"}
}

// StationRow formats one station for display. Missing optional fields render
// as "-".
func StationRow(st radiobrowser.Station) []string {
	return []string{
		strings.TrimSpace(st.Name),
		orDash(st.Country),
		orDash(st.Codec),
		formatBitrate(st.Bitrate),
		formatInt(st.Votes),
		formatHealth(st.LastCheckOK),
	}
}

func orDash(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "-"
	}
	return strings.TrimSpace(*v)
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatBitrate(v *int) string {
	if v == nil || *v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d kbps", *v)
}

func formatHealth(ok *bool) string {
	switch {
	case ok == nil:
		return "?"
	case *ok:
		return "ok"
	default:
		return "down"
	}
}

// stationColumns sizes the table columns for the given inner width.
func stationColumns(width int) []table.Column {
	headers := StationHeaders()
	fixed := []int{countryWidth, codecWidth, bitrateWidth, votesWidth, healthWidth}
	used := len(headers) * cellPadding
	for _, w := range fixed {
		used += w
	}
	nameWidth := maxInt(width-used, minNameWidth)

	widths := append([]int{nameWidth}, fixed...)
	cols := make([]table.Column, len(headers))
	for i, title := range headers {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

func newStationTable(keys keyMap, theme Theme) table.Model {
	t := table.New(
		table.WithColumns(stationColumns(80)),
		table.WithFocused(true),
		table.WithKeyMap(keys.tableKeyMap()),
		table.WithStyles(tableStyles(theme)),
	)
	return t
}

// refreshVisible applies the local search to the snapshot and reloads the
// table, keeping the cursor in range.
func (m *Model) refreshVisible() {
	m.visible = filterStations(m.snapshot.Stations, m.query)

	rows := make([]table.Row, len(m.visible))
	for i, st := range m.visible {
		rows[i] = StationRow(st)
	}
	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) {
		m.table.SetCursor(maxInt(len(rows)-1, 0))
	}
	m.refreshDetail()
}

// filterStations keeps stations whose name or tags contain query, ignoring
// case. An empty query keeps everything.
func filterStations(stations []radiobrowser.Station, query string) []radiobrowser.Station {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return stations
	}
	var out []radiobrowser.Station
	for _, st := range stations {
		if strings.Contains(strings.ToLower(st.Name), query) {
			out = append(out, st)
			continue
		}
		if st.Tags != nil && strings.Contains(strings.ToLower(*st.Tags), query) {
			out = append(out, st)
		}
	}
	return out
}

// selectedStation returns the station under the cursor, if any.
func (m Model) selectedStation() (radiobrowser.Station, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return radiobrowser.Station{}, false
	}
	return m.visible[cursor], true
}

// handleStationsKey handles keys for the stations view.
func (m Model) handleStationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m.startFetch()

	case key.Matches(msg, m.keys.NextPage):
		if m.store == nil || len(m.snapshot.Stations) < m.pageSize {
			return m, nil
		}
		f := m.store.Filter()
		return m.applyFilter(f.WithOffset(offsetOf(f)+m.pageSize), false)

	case key.Matches(msg, m.keys.PrevPage):
		if m.store == nil {
			return m, nil
		}
		f := m.store.Filter()
		if offsetOf(f) == 0 {
			return m, nil
		}
		return m.applyFilter(f.WithOffset(maxInt(offsetOf(f)-m.pageSize, 0)), false)

	case key.Matches(msg, m.keys.CycleOrder):
		if m.store == nil {
			return m, nil
		}
		f := m.store.Filter()
		f.Order = radiobrowser.String(nextOrder(f.Order))
		return m.applyFilter(f.WithOffset(0), true)

	case key.Matches(msg, m.keys.ToggleReverse):
		if m.store == nil {
			return m, nil
		}
		f := m.store.Filter()
		f.Reverse = radiobrowser.Bool(!isTrue(f.Reverse))
		return m.applyFilter(f.WithOffset(0), true)

	case key.Matches(msg, m.keys.ToggleBroken):
		if m.store == nil {
			return m, nil
		}
		f := m.store.Filter()
		f.HideBroken = radiobrowser.Bool(!isTrue(f.HideBroken))
		return m.applyFilter(f.WithOffset(0), true)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.refreshDetail()
	return m, cmd
}

// applyFilter makes f the current filter and fetches it. Sort and hide-broken
// changes are remembered in the preferences file; paging is not.
func (m Model) applyFilter(f radiobrowser.ListingFilter, remember bool) (tea.Model, tea.Cmd) {
	m.store.SetFilter(f)
	m.snapshot.Filter = f
	m.table.SetCursor(0)

	model, fetch := m.startFetch()
	if !remember {
		return model, fetch
	}
	next := model.(Model)
	next.prefs.Remember(f)
	return next, tea.Batch(fetch, next.savePrefsCmd())
}

// startFetch fetches the store's current filter in the background.
func (m Model) startFetch() (tea.Model, tea.Cmd) {
	if m.fetcher == nil || m.store == nil {
		return m, nil
	}
	m.fetching = true
	return m, fetchStationsCmd(m.ctx, m.fetcher, m.store, m.store.Filter())
}

// handleSearchKey handles input while the search prompt is focused.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.search.Blur()
		m.query = strings.TrimSpace(m.search.Value())
		m.table.SetCursor(0)
		m.refreshVisible()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.query)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func nextOrder(current *string) string {
	if current != nil {
		for i, order := range sortOrders {
			if order == *current {
				return sortOrders[(i+1)%len(sortOrders)]
			}
		}
	}
	return sortOrders[0]
}

func offsetOf(f radiobrowser.ListingFilter) int {
	if f.Offset == nil {
		return 0
	}
	return *f.Offset
}

// orderLabel describes the sort for the header, e.g. "votes ↓".
func orderLabel(f radiobrowser.ListingFilter) string {
	order := "default"
	if f.Order != nil {
		order = *f.Order
	}
	return order + " " + ternary(isTrue(f.Reverse), "↓", "↑")
}

// renderStations renders the split table and detail layout.
func (m Model) renderStations() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()
	tableWidth, detailWidth := m.paneWidths()

	if len(m.snapshot.Stations) == 0 {
		msg := "No stations yet"
		if m.snapshot.HasListing() {
			msg = "The directory returned no stations for this page"
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(msg))
	}

	title := fmt.Sprintf("Stations · page %d", m.page())
	if m.query != "" {
		title = fmt.Sprintf("Stations · /%s · %d match", m.query, len(m.visible))
		if len(m.visible) != 1 {
			title += "es"
		}
	}

	var tableContent string
	if len(m.visible) == 0 {
		tableContent = styles.MutedText.Render("No stations match the search")
	} else {
		tableContent = m.table.View()
	}
	tablePane := m.renderTitledBox(title, tableContent, tableWidth, contentHeight, true)

	detailPane := m.renderTitledBox("Details", m.detail.View(), detailWidth, contentHeight, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailPane)
}
