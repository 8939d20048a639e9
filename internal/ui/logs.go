package ui

import (
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/comteq/jokes/internal/logtail"
)

// stdlib log prefix: "2006/01/02 15:04:05 ".
var timestampRe = regexp.MustCompile(`^(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}(?:\.\d+)?) `)

// readLogsCmd tails the client log file.
func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logsMsg{lines: lines, err: err}
	}
}

func (m Model) logViewWidth() int {
	return maxInt(m.width-4, 10)
}

func (m Model) logViewHeight() int {
	return maxInt(m.height-3, 3)
}

// renderLogs renders the client log overlay.
func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	content := m.colorizeLog(m.logView.View())
	box := m.renderTitledBox("Client Log", content, m.width, m.height-1, true)

	var status string
	switch {
	case m.logErr != nil:
		status = bg.Render(truncate(m.logErr.Error(), m.width-2), styles.DangerText)
	case m.logPath == "":
		status = bg.Render("Logging to stderr; no log file to show", styles.WarningText)
	default:
		status = bg.Render(truncateMiddle(m.logPath, maxInt(m.width-40, 10)), styles.FaintText) + bg.Spaces(2) +
			bg.Render("r", styles.AccentText) + bg.Sep(":") + bg.Render("Refresh", styles.MutedText) + bg.Spaces(2) +
			bg.Render("esc", styles.AccentText) + bg.Sep(":") + bg.Render("Close", styles.MutedText)
	}
	return box + "\n" + bg.FillLine(status, m.width)
}

// colorizeLog styles the visible log lines: timestamps faint, HTTP
// exchanges in the accent color and failures in the danger color.
func (m Model) colorizeLog(view string) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	lines := strings.Split(view, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var b strings.Builder
		rest := line
		if match := timestampRe.FindStringSubmatch(rest); match != nil {
			b.WriteString(bg.Render(match[1], styles.FaintText))
			b.WriteString(bg.Space())
			rest = rest[len(match[0]):]
		}
		b.WriteString(bg.Render(rest, lineStyle(rest, styles)))
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func lineStyle(line string, styles Styles) lipgloss.Style {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "failed"):
		return styles.DangerText
	case strings.HasPrefix(line, "-->"), strings.HasPrefix(line, "<--"):
		return styles.AccentText
	case strings.HasPrefix(line, "    "):
		return styles.MutedText
	default:
		return styles.Text
	}
}
