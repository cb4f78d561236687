// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom bar showing backend state, generation statistics,
// and keyboard shortcuts.
type StatusBar struct {
	Width      int
	Backend    Backend
	ModelName  string
	Generating bool

	// Live generation statistics
	TokensGenerated int
	TokensPerSecond float64
	Elapsed         time.Duration

	// Session energy summary
	TotalEnergyMj float64
	ShowEnergy    bool

	theme *styles.Theme
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width:      80,
		Backend:    BackendOffline,
		ShowEnergy: true,
		theme:      theme,
	}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetGeneration updates the in-flight generation statistics.
func (s *StatusBar) SetGeneration(generating bool, tokens int, tokensPerSec float64, elapsed time.Duration) {
	s.Generating = generating
	s.TokensGenerated = tokens
	s.TokensPerSecond = tokensPerSec
	s.Elapsed = elapsed
}

// View renders the status bar.
func (s *StatusBar) View() string {
	left := s.renderBackend()
	if s.ModelName != "" {
		left += " " + s.theme.StatsLabel.Render(s.ModelName)
	}

	middle := ""
	if s.Generating {
		middle = s.theme.StatsValue.Render(fmtNumber(s.TokensGenerated)+" tok") +
			s.theme.StatsLabel.Render(" @ ") +
			s.theme.StatsValue.Render(fmtFloat(s.TokensPerSecond, 1)+" tok/s") +
			s.theme.StatsLabel.Render(" "+fmtDurationShort(s.Elapsed))
	} else if s.ShowEnergy && s.TotalEnergyMj > 0 {
		middle = s.theme.EnergyStat.Render("energy " + fmtFloat(s.TotalEnergyMj, 1) + " mJ")
	}

	right := s.renderShortcuts()

	return s.assemble(left, middle, right)
}

func (s *StatusBar) renderBackend() string {
	switch s.Backend {
	case BackendNode:
		return s.theme.NodeOnline.Render(styles.StatusIndicators.Active + " node")
	case BackendDemo:
		return s.theme.NodeDemo.Render(styles.StatusIndicators.Warning + " demo")
	default:
		return s.theme.NodeOffline.Render(styles.StatusIndicators.Error + " offline")
	}
}

func (s *StatusBar) renderShortcuts() string {
	shortcuts := []struct{ key, desc string }{
		{"^N", "new"},
		{"^S", "sidebar"},
		{"Esc", "stop"},
		{"^C", "quit"},
	}

	parts := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.key)+
				s.theme.ShortcutDesc.Render(" "+sc.desc))
	}
	return strings.Join(parts, "  ")
}

// assemble lays out left, middle, and right sections across the width.
func (s *StatusBar) assemble(left, middle, right string) string {
	leftW := lipgloss.Width(left)
	midW := lipgloss.Width(middle)
	rightW := lipgloss.Width(right)

	gap := s.Width - leftW - midW - rightW - 2
	if gap < 2 {
		// Drop shortcuts first on narrow terminals.
		right = ""
		gap = s.Width - leftW - midW - 2
	}
	if gap < 2 {
		middle = ""
		gap = s.Width - leftW - 2
	}
	if gap < 0 {
		gap = 0
	}

	leftGap := gap / 2
	rightGap := gap - leftGap

	content := left +
		strings.Repeat(" ", leftGap) +
		middle +
		strings.Repeat(" ", rightGap) +
		right

	return s.theme.StatusBar.Width(s.Width).Render(content)
}
