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
// BACKEND TESTS
// =============================================================================

func TestBackendString(t *testing.T) {
	tests := []struct {
		backend Backend
		want    string
	}{
		{BackendNode, "NODE"},
		{BackendDemo, "DEMO"},
		{BackendOffline, "OFFLINE"},
		{Backend(99), "UNKNOWN"},
	}

	for _, tc := range tests {
		got := tc.backend.String()
		if got != tc.want {
			t.Errorf("Backend(%d).String() = %q, want %q", tc.backend, got, tc.want)
		}
	}
}

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestHeaderView(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.SetWidth(80)
	h.SetModel("bitnet-2b")
	h.SetBackend(BackendNode)

	view := h.View()
	if view == "" {
		t.Fatal("View() returned empty string")
	}
	if !strings.Contains(view, "aria") {
		t.Error("View() should contain the app name")
	}
	if !strings.Contains(view, "bitnet-2b") {
		t.Error("View() should contain the model name")
	}
	if !strings.Contains(view, "NODE") {
		t.Error("View() should contain the backend badge")
	}
}

func TestHeaderViewCompact(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.SetWidth(40)
	h.SetModel("bitnet-large")
	h.SetBackend(BackendDemo)

	view := h.ViewCompact()
	if !strings.Contains(view, "bitnet-large") {
		t.Error("ViewCompact() should contain the model name")
	}
	if !strings.Contains(view, "DEMO") {
		t.Error("ViewCompact() should contain the backend badge")
	}
	if strings.Contains(view, "\n") {
		t.Error("ViewCompact() should be a single line")
	}
}

func TestHeaderBackendSwitch(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.SetWidth(80)

	h.SetBackend(BackendOffline)
	if !strings.Contains(h.View(), "OFFLINE") {
		t.Error("View() should reflect the offline backend")
	}

	h.SetBackend(BackendNode)
	if !strings.Contains(h.View(), "NODE") {
		t.Error("View() should reflect the node backend after switch")
	}
}
