// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aria TUI.
package components

import (
	"strings"
	"testing"

	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestNewSpinner(t *testing.T) {
	theme := styles.NewTheme()
	s := NewSpinner(theme)

	if s.Active() {
		t.Error("NewSpinner() should not be active initially")
	}
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}
}

func TestSpinnerStartStop(t *testing.T) {
	theme := styles.NewTheme()
	s := NewSpinner(theme)

	cmd := s.Start()
	if cmd == nil {
		t.Fatal("Start() should return a tick command")
	}
	if !s.Active() {
		t.Error("spinner should be active after Start()")
	}

	view := s.View()
	if view == "" {
		t.Fatal("active spinner should render")
	}
	if !strings.Contains(view, "Thinking") {
		t.Errorf("View() = %q, want it to contain the default message", view)
	}

	s.Stop()
	if s.Active() {
		t.Error("spinner should be inactive after Stop()")
	}
	if s.View() != "" {
		t.Error("stopped spinner should render nothing")
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	theme := styles.NewTheme()
	s := NewSpinner(theme)
	s.SetMessage("Loading model")
	_ = s.Start()

	if !strings.Contains(s.View(), "Loading model") {
		t.Error("View() should contain the custom message")
	}
}

func TestSpinnerUpdateInactive(t *testing.T) {
	theme := styles.NewTheme()
	s := NewSpinner(theme)

	if cmd := s.Update(nil); cmd != nil {
		t.Error("Update() on an inactive spinner should return nil")
	}
}
