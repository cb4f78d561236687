// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aria-protocol/aria-tui/internal/ui/styles"
	"github.com/aria-protocol/aria-tui/internal/util"
)

// =============================================================================
// INPUT AREA COMPONENT
// =============================================================================

// InputArea is the styled message input with a character counter.
type InputArea struct {
	input       textinput.Model
	placeholder string
	maxChars    int
	width       int
	focused     bool
	theme       *styles.Theme
}

// NewInputArea creates a new InputArea component.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "Type a message... (/ for commands)"
	ti.CharLimit = 4096
	ti.Width = 70
	ti.Prompt = "> "

	ti.PromptStyle = lipgloss.NewStyle().
		Foreground(styles.Emerald).
		Bold(true)

	ti.TextStyle = lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	ti.PlaceholderStyle = lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	ti.Cursor.Style = lipgloss.NewStyle().
		Foreground(styles.Emerald)

	return &InputArea{
		input:       ti,
		placeholder: ti.Placeholder,
		maxChars:    4096,
		width:       80,
		focused:     false,
		theme:       theme,
	}
}

// Focus focuses the input.
func (i *InputArea) Focus() tea.Cmd {
	i.focused = true
	return i.input.Focus()
}

// Blur removes focus from the input.
func (i *InputArea) Blur() {
	i.focused = false
	i.input.Blur()
}

// Focused reports whether the input is focused.
func (i *InputArea) Focused() bool {
	return i.focused
}

// SetWidth sets the input area width.
func (i *InputArea) SetWidth(width int) {
	i.width = width
	// Account for prompt and padding.
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	i.input.Width = inputWidth
}

// SetPlaceholder sets the placeholder text.
func (i *InputArea) SetPlaceholder(placeholder string) {
	i.placeholder = placeholder
	i.input.Placeholder = placeholder
}

// Value returns the current input value.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue sets the input value.
func (i *InputArea) SetValue(value string) {
	i.input.SetValue(value)
}

// Reset clears the input.
func (i *InputArea) Reset() {
	i.input.Reset()
}

// Update handles input updates.
func (i *InputArea) Update(msg tea.Msg) (*InputArea, tea.Cmd) {
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd
}

// View renders the input area.
func (i *InputArea) View() string {
	charCount := len([]rune(i.input.Value()))

	borderColor := styles.Overlay
	if i.focused {
		borderColor = styles.Emerald
	}

	containerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(i.width - 2)

	inputSection := containerStyle.Render(i.input.View())

	counterStyle := lipgloss.NewStyle().
		Width(i.width - 4).
		Align(lipgloss.Right)
	charCountLine := counterStyle.Render(i.renderCharCounter(charCount))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		inputSection,
		charCountLine,
	)
}

// ViewCompact renders a compact single-line input.
func (i *InputArea) ViewCompact() string {
	charCount := len([]rune(i.input.Value()))
	counter := i.charCountStyle(charCount).Render("(" + util.IntToString(charCount) + ")")
	return i.input.View() + " " + counter
}

// renderCharCounter renders the character counter with color coding.
func (i *InputArea) renderCharCounter(count int) string {
	counterText := fmtNumber(count) + " / " + fmtNumber(i.maxChars) + " chars"

	percent := 0.0
	if i.maxChars > 0 {
		percent = float64(count) / float64(i.maxChars) * 100
	}
	indicator := ""
	if percent >= 90 {
		indicator = " [!]"
	} else if percent >= 75 {
		indicator = " [~]"
	}

	return i.charCountStyle(count).Render(counterText + indicator)
}

func (i *InputArea) charCountStyle(count int) lipgloss.Style {
	percent := 0.0
	if i.maxChars > 0 {
		percent = float64(count) / float64(i.maxChars) * 100
	}

	switch {
	case percent >= 90:
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	case percent >= 75:
		return lipgloss.NewStyle().Foreground(styles.Amber)
	case percent >= 50:
		return lipgloss.NewStyle().Foreground(styles.TextSecondary)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// IsSlashCommand reports whether the current input looks like a command.
func (i *InputArea) IsSlashCommand() bool {
	return strings.HasPrefix(strings.TrimSpace(i.input.Value()), "/")
}
