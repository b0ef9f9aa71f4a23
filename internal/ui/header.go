package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/airwaves/internal/radiobrowser"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	header := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width)

	if !m.snapshot.HasListing() {
		return header.Render(m.renderConnectingHeader(styles, bg))
	}

	return header.Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the state before the first listing arrives.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	parts := []string{bg.Render("airwaves", styles.Logo)}

	if m.snapshot.LastError != nil {
		parts = append(parts,
			bg.Render("DIRECTORY "+describeError(m.snapshot.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
		if m.logPath != "" {
			parts = append(parts,
				bg.Render("logs", styles.FaintText)+bg.Space()+
					bg.Render(truncateMiddle(m.logPath, 50), styles.MutedText))
		}
		return bg.Join(parts, "  ")
	}

	parts = append(parts, bg.Render("Contacting radio-browser...", styles.WarningText.Bold(true)))
	return bg.Join(parts, "  ")
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < 100
	snap := m.snapshot

	parts := []string{bg.Render("airwaves", styles.Logo)}

	switch {
	case snap.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case snap.LastError != nil:
		parts = append(parts, bg.Render("● STALE", styles.WarningText))
	default:
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	count := strconv.Itoa(len(snap.Stations))
	if m.query != "" {
		count = fmt.Sprintf("%d/%d", len(m.visible), len(snap.Stations))
	}
	parts = append(parts,
		bg.Render("Stations:", styles.MutedText)+bg.Space()+bg.Render(count, styles.Text))

	parts = append(parts,
		bg.Render("Page:", styles.MutedText)+bg.Space()+
			bg.Render(strconv.Itoa(m.page()), styles.Text))

	parts = append(parts,
		bg.Render("Sort:", styles.MutedText)+bg.Space()+
			bg.Render(orderLabel(snap.Filter), styles.AccentText))

	if isTrue(snap.Filter.HideBroken) {
		parts = append(parts, bg.Render("healthy only", styles.InfoText))
	}

	if m.fetching {
		parts = append(parts, bg.Render("fetching...", styles.WarningText))
	}

	if !compact && !snap.LastUpdated.IsZero() {
		parts = append(parts,
			bg.Render("Updated", styles.FaintText)+bg.Space()+
				bg.Render(snap.LastUpdated.Format("15:04:05"), styles.MutedText))
	}

	return bg.Join(parts, "  ")
}

// renderCommandBar shows the short help, or the search prompt while typing.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bar := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Muted)).
		Padding(0, 1).
		Width(m.width)

	if m.searching {
		return bar.Render(m.search.View())
	}
	if m.notice != "" {
		return bar.Render(styles.WarningText.Render(m.notice))
	}
	if m.query != "" && m.currentView == ViewStations {
		return bar.Render(styles.AccentText.Render("/"+m.query) + "  " + m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return bar.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// page is the 1-based page number of the current filter.
func (m Model) page() int {
	offset := 0
	if m.snapshot.Filter.Offset != nil {
		offset = *m.snapshot.Filter.Offset
	}
	return offset/m.pageSize + 1
}

// describeError turns a fetch error into a short status phrase.
func describeError(err error) string {
	var (
		statusErr    *radiobrowser.StatusError
		decodeErr    *radiobrowser.DecodeError
		transportErr *radiobrowser.TransportError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, radiobrowser.ErrNoServerAvailable):
		return "NO MIRROR AVAILABLE"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP %d", statusErr.StatusCode)
	case errors.As(err, &decodeErr):
		return "BAD RESPONSE"
	case errors.As(err, &transportErr):
		return "UNREACHABLE"
	default:
		return "ERROR"
	}
}

func isTrue(v *bool) bool {
	return v != nil && *v
}
