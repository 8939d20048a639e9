package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/comteq/jokes/internal/state"
)

// renderCollection draws the main box for the current phase.
func (m Model) renderCollection() string {
	width := maxInt(m.width, LayoutMinBoxWidth)
	height := maxInt(m.height-chromeRows, 3)
	inner := width - 4

	status := m.snapshot.Status
	title := "Jokes"
	var content string

	switch status.Phase {
	case state.PhaseLoading:
		content = m.renderCentered(m.spinner.View()+" Loading jokes...", inner, height-2, m.theme.Info)
	case state.PhaseLoaded:
		title = fmt.Sprintf("Jokes (%d)", len(status.Items))
		if len(status.Items) == 0 {
			content = m.renderCentered("No jokes yet. Press a to add one.", inner, height-2, m.theme.Muted)
		} else {
			content = m.renderJokeRows(inner, height-2)
		}
	case state.PhaseFailed:
		content = m.renderFailure(status.Message, inner, height-2)
	default:
		content = m.renderCentered("No Jokes To Show", inner, height-2, m.theme.Muted)
	}

	return m.renderTitledBox(title, content, width, height, m.modal == nil)
}

func (m Model) renderCentered(text string, width, height int, color string) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Background(lipgloss.Color(m.theme.FocusBg))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, style.Render(text),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.FocusBg)))
}

func (m Model) renderFailure(message string, width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	body := styles.DangerText.Render(message) + "\n\n" +
		styles.MutedText.Render("Press r to retry, l to view the client log")
	block := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.FocusBg)))
}

// renderJokeRows lists jokes three rows apiece, scrolled to keep the
// selection visible.
func (m Model) renderJokeRows(width, height int) string {
	items := m.items()
	visible := maxInt(height/rowsPerJoke, 1)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := minInt(len(items), start+visible)

	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	selected := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Width(width)

	lines := make([]string, 0, (end-start)*rowsPerJoke)
	for i := start; i < end; i++ {
		joke := items[i]
		id := "-"
		if key, ok := joke.Key(); ok {
			id = fmt.Sprintf("#%d", key)
		}
		setup := truncate(singleLine(joke.Setup), width-len(id)-3)
		punchline := truncate(singleLine(joke.Punchline), width-len(id)-3)
		pad := strings.Repeat(" ", len(id))

		if i == m.selected {
			lines = append(lines,
				selected.Bold(true).Render(" "+id+" "+setup),
				selected.Render(" "+pad+" "+punchline),
			)
		} else {
			lines = append(lines,
				styles.FaintText.Render(" "+id+" ")+styles.Text.Render(setup),
				styles.MutedText.Render(" "+pad+" "+punchline),
			)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := width - 2
	title = truncate(title, maxInt(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := maxInt((innerWidth-titleLen-2)/2, 0)
	rightPad := maxInt(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().
		Width(innerWidth).
		Background(lipgloss.Color(bgColorStr)).
		Padding(0, 1)

	contentLines := strings.Split(content, "\n")
	rows := make([]string, 0, height-2)
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		rows = append(rows, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(rows, "\n") + "\n" + bottomBorder
}
