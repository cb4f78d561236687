// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat interface for the aria TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// LAYOUT
// =============================================================================

const (
	// sidebarWidth is the fixed column the conversation list occupies.
	sidebarWidth = 28

	// chromeHeight is the vertical space taken by everything that is not
	// the viewport: header, spinner line, input, and status bar.
	chromeHeight = 10
)

// View renders the full interface.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		// First paint happens before the initial WindowSizeMsg.
		return "loading..."
	}

	switch m.overlay {
	case overlayEnergy:
		return m.overlayView(m.energy.View())
	case overlayModels:
		return m.overlayView(m.models.View())
	case overlayHelp:
		return m.overlayView(m.helpView())
	}

	column := m.chatColumn()
	if m.sidebarVisible {
		column = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), column)
	}

	sections := []string{m.header.View(), column}
	if !m.toasts.Empty() {
		sections = append(sections, m.toasts.View(m.width))
	}
	sections = append(sections, m.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// chatColumn renders the viewport, spinner, and input stack.
func (m *Model) chatColumn() string {
	var parts []string

	conv := m.deps.Session.ActiveConversation()
	if conv != nil && len(conv.Messages) == 0 {
		parts = append(parts, m.welcome.View())
	} else {
		parts = append(parts, m.viewport.View())
	}

	if m.spinner.Active() {
		parts = append(parts, m.spinner.View())
	}

	parts = append(parts, m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// overlayView centers a panel over a cleared screen, keeping the header
// and status bar for orientation.
func (m *Model) overlayView(panel string) string {
	body := lipgloss.Place(
		m.width,
		maxInt(m.height-chromeHeight+4, 3),
		lipgloss.Center,
		lipgloss.Center,
		panel,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		body,
		m.statusBar.View(),
	)
}

// helpView renders the keyboard and slash command reference.
func (m *Model) helpView() string {
	lines := []string{m.theme.PanelTitle.Render("Help"), ""}

	for _, row := range m.keys.HelpLines() {
		if row[0] == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines,
			m.theme.PanelLabel.Render(row[0])+m.theme.PanelValue.Render(row[1]))
	}

	lines = append(lines, "", m.theme.PanelHint.Render("press esc to close"))

	return m.theme.PanelBox.Render(strings.Join(lines, "\n"))
}
