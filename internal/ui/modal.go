package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// deleteConfirmedMsg asks the model to dispatch a delete intent.
type deleteConfirmedMsg struct {
	id int64
}

// confirmDelete asks before deleting the selected joke.
type confirmDelete struct {
	id    int64
	setup string
}

func (c confirmDelete) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Yes), key.Matches(msg, keys.Confirm):
		id := c.id
		return c, func() tea.Msg { return deleteConfirmedMsg{id: id} }, true
	case key.Matches(msg, keys.No), key.Matches(msg, keys.Escape):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmDelete) View(theme Theme, width, _ int) string {
	styles := theme.Styles()
	inner := dialogWidth(width) - 6

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete joke?"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(truncate(singleLine(c.setup), inner)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("id %d", c.id)))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y") + styles.MutedText.Render(" delete  "))
	b.WriteString(styles.AccentText.Render("n") + styles.MutedText.Render(" cancel"))

	return dialogStyle(theme, theme.Danger, width).Render(b.String())
}

// dialogWidth fits formWidth into the terminal.
func dialogWidth(termWidth int) int {
	if termWidth <= 0 {
		return formWidth
	}
	return maxInt(LayoutMinBoxWidth, minInt(formWidth, termWidth-4))
}

func dialogStyle(theme Theme, border string, termWidth int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(dialogWidth(termWidth))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
