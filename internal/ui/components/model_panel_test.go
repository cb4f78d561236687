// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aria TUI.
package components

import (
	"strings"
	"testing"

	"github.com/aria-protocol/aria-tui/internal/gateway"
	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

func TestModelPanelListsCatalog(t *testing.T) {
	p := NewModelPanel(styles.NewTheme())
	p.SetWidth(80)

	view := p.View()
	for _, m := range model.AllModels() {
		if !strings.Contains(view, m.Name) {
			t.Errorf("View() should list model %q", m.Name)
		}
	}
}

func TestModelPanelCursor(t *testing.T) {
	p := NewModelPanel(styles.NewTheme())

	first := p.Cursor()
	p.CursorDown()
	second := p.Cursor()
	if first.ID == second.ID {
		t.Error("CursorDown() should move to the next model")
	}

	p.CursorUp()
	p.CursorUp() // clamp at top
	if got := p.Cursor().ID; got != first.ID {
		t.Errorf("cursor should clamp at the top, got %q", got)
	}
}

func TestModelPanelBadges(t *testing.T) {
	p := NewModelPanel(styles.NewTheme())
	p.SetWidth(80)
	p.SetSelected(model.DefaultModelID)
	p.SetStates([]gateway.ModelState{
		{ID: model.DefaultModelID, Downloaded: true, Loaded: true},
	})

	view := p.View()
	if !strings.Contains(view, "selected") {
		t.Error("View() should mark the selected model")
	}
	if !strings.Contains(view, "loaded") {
		t.Error("View() should mark the loaded model")
	}
	if !strings.Contains(view, "recommended") {
		t.Error("View() should mark the recommended model")
	}
}
