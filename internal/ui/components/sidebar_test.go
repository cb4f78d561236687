// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aria TUI.
package components

import (
	"strings"
	"testing"

	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

func sidebarItems() []model.ConversationMeta {
	return []model.ConversationMeta{
		{ID: "c1", Title: "Energy questions", MessageCount: 4},
		{ID: "c2", Title: "Quantization deep dive", MessageCount: 12},
		{ID: "c3", Title: "New Conversation", MessageCount: 0},
	}
}

func TestSidebarSetItemsFollowsActive(t *testing.T) {
	theme := styles.NewTheme()
	sb := NewSidebar(theme)
	sb.SetSize(30, 20)
	sb.SetItems(sidebarItems(), "c2")

	if sb.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", sb.Count())
	}
	if got := sb.Selected().ID; got != "c2" {
		t.Errorf("Selected().ID = %q, want cursor to follow the active conversation", got)
	}
}

func TestSidebarCursorMovement(t *testing.T) {
	theme := styles.NewTheme()
	sb := NewSidebar(theme)
	sb.SetSize(30, 20)
	sb.SetItems(sidebarItems(), "c1")

	sb.CursorDown()
	if got := sb.Selected().ID; got != "c2" {
		t.Errorf("after CursorDown, Selected().ID = %q, want c2", got)
	}

	sb.CursorUp()
	sb.CursorUp() // already at top, stays put
	if got := sb.Selected().ID; got != "c1" {
		t.Errorf("cursor should clamp at the top, got %q", got)
	}

	sb.CursorDown()
	sb.CursorDown()
	sb.CursorDown() // already at bottom
	if got := sb.Selected().ID; got != "c3" {
		t.Errorf("cursor should clamp at the bottom, got %q", got)
	}
}

func TestSidebarViewMarksActive(t *testing.T) {
	theme := styles.NewTheme()
	sb := NewSidebar(theme)
	sb.SetSize(30, 20)
	sb.SetItems(sidebarItems(), "c1")

	view := sb.View()
	if !strings.Contains(view, "Energy questions") {
		t.Error("View() should contain conversation titles")
	}
	if !strings.Contains(view, "12 msg") {
		t.Error("View() should contain message counts")
	}
}

func TestSidebarEmpty(t *testing.T) {
	theme := styles.NewTheme()
	sb := NewSidebar(theme)
	sb.SetSize(30, 20)

	if sb.Count() != 0 {
		t.Errorf("Count() = %d, want 0", sb.Count())
	}
	if got := sb.Selected().ID; got != "" {
		t.Errorf("Selected() on empty sidebar should be zero-valued, got %q", got)
	}
}
