// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
	"github.com/aria-protocol/aria-tui/internal/util"
)

// =============================================================================
// CONVERSATION SIDEBAR
// =============================================================================

// Sidebar lists conversations most-recent-first and tracks a cursor for
// keyboard navigation.
type Sidebar struct {
	Width  int
	Height int

	items    []model.ConversationMeta
	cursor   int
	activeID string

	theme *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		Width:  30,
		Height: 20,
		theme:  theme,
	}
}

// SetSize updates the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetItems replaces the conversation list and keeps the cursor on the
// active conversation.
func (s *Sidebar) SetItems(items []model.ConversationMeta, activeID string) {
	s.items = items
	s.activeID = activeID
	s.cursor = 0
	for i, item := range items {
		if item.ID == activeID {
			s.cursor = i
			break
		}
	}
}

// CursorUp moves the selection up.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// CursorDown moves the selection down.
func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.items)-1 {
		s.cursor++
	}
}

// Selected returns the conversation under the cursor, or empty meta when
// the list is empty.
func (s *Sidebar) Selected() model.ConversationMeta {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return model.ConversationMeta{}
	}
	return s.items[s.cursor]
}

// Count returns the number of listed conversations.
func (s *Sidebar) Count() int {
	return len(s.items)
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	innerWidth := s.Width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	lines := []string{
		s.theme.SidebarTitle.Render("Conversations"),
		"",
	}

	// Two rows per item: title, then meta.
	maxVisible := (s.Height - 3) / 2
	if maxVisible < 1 {
		maxVisible = 1
	}

	start := 0
	if s.cursor >= maxVisible {
		start = s.cursor - maxVisible + 1
	}

	for i := start; i < len(s.items) && i < start+maxVisible; i++ {
		item := s.items[i]
		title := util.TruncateRunes(item.Title, innerWidth-2)

		marker := "  "
		if item.ID == s.activeID {
			marker = "* "
		}

		if i == s.cursor {
			lines = append(lines, s.theme.SidebarItemSelected.Render(marker+title))
		} else {
			lines = append(lines, s.theme.SidebarItem.Render(marker+title))
		}

		meta := fmtNumber(item.MessageCount) + " msg"
		lines = append(lines, s.theme.SidebarItemMeta.Render(meta))
	}

	if len(s.items) == 0 {
		lines = append(lines, s.theme.SidebarItemMeta.Render("no conversations"))
	}

	content := strings.Join(lines, "\n")
	return s.theme.Sidebar.
		Width(s.Width).
		Height(s.Height).
		Render(lipgloss.NewStyle().MaxWidth(s.Width - 2).Render(content))
}
