package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/comteq/jokes/internal/state"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	snap := m.snapshot

	parts := []string{
		bg.Render("jokes", styles.Logo),
		styles.StatusStyle(phaseKey(snap.Status.Phase)).Render(strings.ToUpper(phaseKey(snap.Status.Phase))),
	}

	if snap.Status.Phase == state.PhaseLoaded {
		parts = append(parts, bg.Render(plural(len(snap.Status.Items), "joke"), styles.Text))
	}

	if m.busy > 0 {
		parts = append(parts,
			bg.Render(m.spinner.View(), styles.InfoText)+bg.Space()+
				bg.Render("Saving...", styles.WarningText.Bold(true)))
	}

	if snap.ConsecutiveFailures > 1 {
		parts = append(parts,
			bg.Render(fmt.Sprintf("%d failures in a row", snap.ConsecutiveFailures), styles.DangerText))
	}

	if m.notice != "" {
		parts = append(parts, bg.Render(truncate(m.notice, 48), styles.SuccessText))
	}

	if !compact {
		if !snap.LastUpdated.IsZero() {
			parts = append(parts,
				bg.Render("Updated", styles.FaintText)+bg.Space()+
					bg.Render(snap.LastUpdated.Format("15:04:05"), styles.MutedText))
		}
		if m.endpoint != "" {
			parts = append(parts, bg.Render(truncateMiddle(m.endpoint, 48), styles.FaintText))
		}
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints under the header.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"a", "Add"},
		{"e", "Edit"},
		{"d", "Delete"},
		{"r", "Reload"},
		{"j/k", "Navigate"},
		{"l", "Log"},
		{"?", "More"},
	}
	if m.snapshot.Status.Phase != state.PhaseLoaded {
		commands = []cmd{
			{"r", "Reload"},
			{"a", "Add"},
			{"l", "Log"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

// phaseKey returns the StatusColors key for a phase.
func phaseKey(p state.Phase) string {
	switch p {
	case state.PhaseLoading:
		return "loading"
	case state.PhaseLoaded:
		return "loaded"
	case state.PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}
