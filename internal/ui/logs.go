package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/five82/airwaves/internal/logtail"
)

// logFetchLimit caps how many lines of the log file are kept in memory.
const logFetchLimit = 500

type logsMsg struct {
	lines []logtail.Line
	err   error
}

// refreshLogs reads the tail of the log file off the update loop.
func (m Model) refreshLogs() tea.Cmd {
	if m.logPath == "" {
		return nil
	}
	path := m.logPath
	return func() tea.Msg {
		lines, err := logtail.Read(path, logFetchLimit)
		return logsMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	if msg.err != nil {
		m.notice = "log unavailable: " + msg.err.Error()
		return
	}
	m.logLines = msg.lines
	m.renderLogLines()
}

// renderLogLines pushes the (optionally filtered) lines into the viewport.
func (m *Model) renderLogLines() {
	lines := m.logLines
	if m.logWarnOnly {
		lines = logtail.AtLeast(lines, log.WarnLevel)
	}

	if len(lines) == 0 {
		msg := "No log lines yet"
		if m.logPath == "" {
			msg = "Logging to a file is disabled"
		}
		m.logView.SetContent(m.theme.Styles().MutedText.Render(msg))
		return
	}

	styles := m.theme.Styles()
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = levelStyle(styles, l.Level).Render(truncate(l.Text, m.logView.Width))
	}
	m.logView.SetContent(strings.Join(rendered, "\n"))
	if m.logFollow {
		m.logView.GotoBottom()
	}
}

func levelStyle(styles Styles, level log.Level) lipgloss.Style {
	switch {
	case level <= log.ErrorLevel:
		return styles.DangerText
	case level == log.WarnLevel:
		return styles.WarningText
	case level >= log.DebugLevel:
		return styles.FaintText
	default:
		return styles.Text
	}
}

// handleLogsKey processes keyboard input for logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logView.GotoBottom()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleWarnOnly):
		m.logWarnOnly = !m.logWarnOnly
		m.renderLogLines()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logView.GotoTop()
		m.logFollow = false
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.logView.GotoBottom()
		m.logFollow = true
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.logView.LineDown(1)
		m.logFollow = false
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.logView.LineUp(1)
		m.logFollow = false
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.logView.HalfViewDown()
		m.logFollow = false
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.logView.HalfViewUp()
		m.logFollow = false
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.logView.ViewDown()
		m.logFollow = false
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.logView.ViewUp()
		m.logFollow = false
		return m, nil
	}

	return m, nil
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Log"
	if m.logPath != "" {
		title += " · " + truncateMiddle(m.logPath, 40)
	}
	if m.logWarnOnly {
		title += " · warnings"
	}
	if m.logFollow {
		title += " · following"
	}
	return m.renderTitledBox(title, m.logView.View(), m.width, m.contentHeight(), true)
}
