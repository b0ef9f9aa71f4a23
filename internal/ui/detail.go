package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/airwaves/internal/radiobrowser"
)

const detailLabelWidth = 10

// refreshDetail renders the selected station into the detail viewport.
func (m *Model) refreshDetail() {
	st, ok := m.selectedStation()
	if !ok {
		m.detail.SetContent(m.theme.Styles().MutedText.Render("Select a station"))
		return
	}
	m.detail.SetContent(m.renderStationDetail(st, m.detail.Width))
	m.detail.GotoTop()
}

// renderStationDetail lays out every known field of a station. Fields the
// directory left empty are skipped.
func (m Model) renderStationDetail(st radiobrowser.Station, width int) string {
	styles := m.theme.Styles()
	valueWidth := maxInt(width-detailLabelWidth-1, 10)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(truncate(st.Name, width)))
	b.WriteString("\n")
	b.WriteString(styles.HealthStyle(st.LastCheckOK).Render(healthLabel(st.LastCheckOK)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(styles.MutedText.Render(padRight(label, detailLabelWidth)))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(truncateMiddle(value, valueWidth)))
		b.WriteString("\n")
	}

	row("Stream", st.URL)
	row("Homepage", deref(st.Homepage))
	row("Country", location(st))
	row("Language", deref(st.Language))
	if st.Codec != nil || st.Bitrate != nil {
		row("Format", strings.TrimSpace(orDash(st.Codec)+" "+ternary(st.Bitrate != nil, formatBitrate(st.Bitrate), "")))
	}
	row("Votes", optionalInt(st.Votes))
	row("Clicks", optionalInt(st.ClickCount))
	if st.LastCheckTime != nil && !st.LastCheckTime.IsZero() {
		row("Checked", st.LastCheckTime.Local().Format("2006-01-02 15:04"))
	}
	if st.ClickTimestamp != nil && !st.ClickTimestamp.IsZero() {
		row("Last click", st.ClickTimestamp.Local().Format("2006-01-02 15:04"))
	}
	row("UUID", deref(st.StationUUID))

	if tags := st.TagList(); len(tags) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Tags"))
		b.WriteString("\n")
		wrapped := lipgloss.NewStyle().Width(maxInt(width, 10)).Render(strings.Join(tags, " · "))
		b.WriteString(styles.AccentText.Render(wrapped))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func healthLabel(ok *bool) string {
	switch {
	case ok == nil:
		return "● never checked"
	case *ok:
		return "● stream online at last check"
	default:
		return "● stream failed last check"
	}
}

// location joins country, state and country code, e.g. "Germany, Bavaria (DE)".
func location(st radiobrowser.Station) string {
	parts := make([]string, 0, 2)
	if v := deref(st.Country); v != "" {
		parts = append(parts, v)
	}
	if v := deref(st.State); v != "" {
		parts = append(parts, v)
	}
	out := strings.Join(parts, ", ")
	if code := deref(st.CountryCode); code != "" {
		if out == "" {
			return code
		}
		out += " (" + code + ")"
	}
	return out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
