package ui

import (
	"testing"

	"github.com/comteq/jokes/internal/state"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct{ current, want string }{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Slate", "Nightfox"},
		{"Unknown", "Nightfox"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Fatalf("NextTheme(%s) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemesColorEveryPhase(t *testing.T) {
	phases := []state.Phase{state.PhaseIdle, state.PhaseLoading, state.PhaseLoaded, state.PhaseFailed}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, p := range phases {
			if th.StatusColors[phaseKey(p)] == "" {
				t.Fatalf("theme %s has no color for %s", name, phaseKey(p))
			}
		}
	}
}

func TestWithBackgroundKeepsFallbackColor(t *testing.T) {
	styles := GetTheme("Nightfox").Styles().WithBackground("#000000")
	if styles.muted == "" {
		t.Fatalf("WithBackground dropped the muted fallback color")
	}
}
