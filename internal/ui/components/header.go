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
// HEADER COMPONENT
// =============================================================================

// Backend identifies which inference backend is serving the session.
type Backend int

const (
	BackendNode Backend = iota
	BackendDemo
	BackendOffline
)

// String returns the display string for the backend.
func (b Backend) String() string {
	switch b {
	case BackendNode:
		return "NODE"
	case BackendDemo:
		return "DEMO"
	case BackendOffline:
		return "OFFLINE"
	default:
		return "UNKNOWN"
	}
}

// Header is the title bar component.
type Header struct {
	Title     string
	ModelName string
	Backend   Backend
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:   "aria",
		Backend: BackendOffline,
		Width:   80,
		theme:   theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the current model name.
func (h *Header) SetModel(model string) {
	h.ModelName = model
}

// SetBackend updates the backend indicator.
func (h *Header) SetBackend(backend Backend) {
	h.Backend = backend
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	innerWidth := width - 6

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Emerald)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	subtitleParts := []string{}
	if h.ModelName != "" {
		modelStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, modelStyle.Render(h.ModelName))
	}
	subtitleParts = append(subtitleParts, h.backendStyle().Render("["+h.Backend.String()+"]"))
	subtitle := strings.Join(subtitleParts, " ")

	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Emerald).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a single-line header for narrow terminals.
func (h *Header) ViewCompact() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Emerald)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}
	if h.ModelName != "" {
		modelStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, modelStyle.Render(h.ModelName))
	}
	parts = append(parts, h.backendStyle().Render("["+h.Backend.String()+"]"))

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

func (h *Header) backendStyle() lipgloss.Style {
	switch h.Backend {
	case BackendNode:
		return lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)
	case BackendDemo:
		return lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)
	case BackendOffline:
		return lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
	default:
		return lipgloss.NewStyle().
			Foreground(styles.TextMuted)
	}
}
