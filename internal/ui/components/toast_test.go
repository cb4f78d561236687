// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aria TUI.
package components

import (
	"strings"
	"testing"
	"time"

	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

func TestToastDurations(t *testing.T) {
	info := NewToast(ToastInfo, "saved")
	if info.Duration != 3*time.Second {
		t.Errorf("info toast duration = %v, want 3s", info.Duration)
	}

	errToast := NewToast(ToastError, "node unreachable")
	if errToast.Duration != 6*time.Second {
		t.Errorf("error toast duration = %v, want 6s", errToast.Duration)
	}
}

func TestToastExpiry(t *testing.T) {
	toast := NewToast(ToastInfo, "saved")
	if toast.Expired() {
		t.Error("fresh toast should not be expired")
	}

	toast.CreatedAt = time.Now().Add(-10 * time.Second)
	if !toast.Expired() {
		t.Error("old toast should be expired")
	}
}

func TestToastStackPruneAndCap(t *testing.T) {
	stack := NewToastStack(styles.NewTheme())

	for i := 0; i < 5; i++ {
		stack.Push(NewToast(ToastInfo, "notice"))
	}
	if got := len(stack.toasts); got != 3 {
		t.Errorf("stack should cap at 3 toasts, got %d", got)
	}

	stack.toasts[0].CreatedAt = time.Now().Add(-time.Minute)
	if !stack.Prune() {
		t.Error("Prune() should report remaining toasts")
	}
	if got := len(stack.toasts); got != 2 {
		t.Errorf("Prune() should drop expired toasts, got %d left", got)
	}

	stack.Clear()
	if !stack.Empty() {
		t.Error("stack should be empty after Clear()")
	}
}

func TestToastStackView(t *testing.T) {
	stack := NewToastStack(styles.NewTheme())
	if stack.View(80) != "" {
		t.Error("empty stack should render nothing")
	}

	stack.Push(NewToast(ToastError, "backend is not running"))
	view := stack.View(80)
	if !strings.Contains(view, "backend is not running") {
		t.Errorf("View() should contain the toast message, got %q", view)
	}
	if !strings.Contains(view, styles.StatusIndicators.Error) {
		t.Error("error toast should carry the error indicator")
	}
}
