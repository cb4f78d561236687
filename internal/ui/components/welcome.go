// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is the first screen shown before any message is sent.
type Welcome struct {
	version   string
	modelName string
	backend   Backend

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version:   "dev",
		modelName: "bitnet-2b",
		backend:   BackendOffline,
		theme:     theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetModelName sets the model name.
func (w *Welcome) SetModelName(name string) {
	w.modelName = name
}

// SetBackend sets the backend indicator.
func (w *Welcome) SetBackend(backend Backend) {
	w.backend = backend
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome screen centered in the available space.
func (w Welcome) View() string {
	title := w.theme.HeaderTitle.Render("aria")
	tagline := w.theme.HeaderSubtitle.Render("Decentralized AI, on your own hardware")

	info := []string{
		w.theme.StatsLabel.Render("version  ") + w.theme.StatsValue.Render(w.version),
		w.theme.StatsLabel.Render("model    ") + w.theme.StatsValue.Render(w.modelName),
		w.theme.StatsLabel.Render("backend  ") + w.backendLine(),
	}

	hints := []string{
		w.theme.ShortcutKey.Render("enter") + w.theme.ShortcutDesc.Render(" send message"),
		w.theme.ShortcutKey.Render("/help") + w.theme.ShortcutDesc.Render(" commands"),
		w.theme.ShortcutKey.Render("/energy") + w.theme.ShortcutDesc.Render(" savings report"),
	}

	lines := []string{
		title,
		tagline,
		"",
	}
	lines = append(lines, info...)
	lines = append(lines, "")
	lines = append(lines, hints...)

	box := w.theme.PanelBox.Render(strings.Join(lines, "\n"))

	if w.width > 0 && w.height > 0 {
		return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (w Welcome) backendLine() string {
	switch w.backend {
	case BackendNode:
		return w.theme.NodeOnline.Render("node online")
	case BackendDemo:
		return w.theme.NodeDemo.Render("simulated (demo)")
	default:
		return w.theme.NodeOffline.Render("node offline")
	}
}
