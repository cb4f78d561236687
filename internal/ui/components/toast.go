// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

// =============================================================================
// TOAST NOTIFICATIONS
// =============================================================================

// ToastLevel classifies a transient notification.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Toast is a transient notification shown above the status bar.
type Toast struct {
	Level     ToastLevel
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast creates a toast with the default duration for its level.
// Errors stay up longer than confirmations.
func NewToast(level ToastLevel, message string) Toast {
	d := 3 * time.Second
	if level == ToastError {
		d = 6 * time.Second
	}
	return Toast{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// Expired reports whether the toast should be dismissed.
func (t Toast) Expired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// ToastTickMsg drives toast expiry.
type ToastTickMsg struct{}

// ToastTickCmd schedules the next expiry check.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return ToastTickMsg{}
	})
}

// ToastStack holds the active toasts, newest last.
type ToastStack struct {
	toasts []Toast
	theme  *styles.Theme
}

// NewToastStack creates an empty toast stack.
func NewToastStack(theme *styles.Theme) *ToastStack {
	return &ToastStack{theme: theme}
}

// Push adds a toast.
func (s *ToastStack) Push(t Toast) {
	s.toasts = append(s.toasts, t)
	// Keep the stack short; old toasts are stale news.
	if len(s.toasts) > 3 {
		s.toasts = s.toasts[len(s.toasts)-3:]
	}
}

// Prune drops expired toasts and reports whether any remain.
func (s *ToastStack) Prune() bool {
	kept := s.toasts[:0]
	for _, t := range s.toasts {
		if !t.Expired() {
			kept = append(kept, t)
		}
	}
	s.toasts = kept
	return len(s.toasts) > 0
}

// Empty reports whether there are no active toasts.
func (s *ToastStack) Empty() bool {
	return len(s.toasts) == 0
}

// Clear removes all toasts.
func (s *ToastStack) Clear() {
	s.toasts = nil
}

// View renders the active toasts, one per line.
func (s *ToastStack) View(width int) string {
	if len(s.toasts) == 0 {
		return ""
	}

	var lines []string
	for _, t := range s.toasts {
		lines = append(lines, s.renderToast(t, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s *ToastStack) renderToast(t Toast, width int) string {
	var icon string
	var color lipgloss.AdaptiveColor

	switch t.Level {
	case ToastSuccess:
		icon = styles.StatusIndicators.Success
		color = styles.Emerald
	case ToastWarning:
		icon = styles.StatusIndicators.Warning
		color = styles.Amber
	case ToastError:
		icon = styles.StatusIndicators.Error
		color = styles.Rose
	default:
		icon = styles.StatusIndicators.Info
		color = styles.Cyan
	}

	style := lipgloss.NewStyle().
		Foreground(color).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		MaxWidth(width - 2)

	return style.Render(icon + " " + t.Message)
}
