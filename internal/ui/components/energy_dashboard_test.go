// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aria TUI.
package components

import (
	"strings"
	"testing"
	"time"

	"github.com/aria-protocol/aria-tui/internal/energy"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

func TestEnergyDashboardView(t *testing.T) {
	d := NewEnergyDashboard(styles.NewTheme())
	d.SetWidth(80)
	d.SetReport(energy.Report{
		TotalInferences:      8,
		TotalTokensGenerated: 1024,
		TotalEnergyMj:        33.0,
		AvgEnergyPerTokenMj:  0.032,
		SessionUptime:        5 * time.Minute,
		GpuBaselineMj:        1200.0,
		EnergySavedMj:        1167.0,
		ReductionPercent:     97.3,
		Co2SavedKg:           0.0005,
		CostSavedUsd:         0.00012,
	})

	view := d.View()
	if !strings.Contains(view, "1,024") {
		t.Error("View() should contain the token total with separators")
	}
	if !strings.Contains(view, "150 mJ") {
		t.Error("View() should name the GPU baseline")
	}
	if !strings.Contains(view, "97.3%") {
		t.Errorf("View() should contain the reduction percent, got %q", view)
	}
}

func TestEnergyDashboardEmptySession(t *testing.T) {
	d := NewEnergyDashboard(styles.NewTheme())
	d.SetWidth(80)
	d.SetReport(energy.Report{})

	view := d.View()
	if view == "" {
		t.Fatal("dashboard should render even with an empty report")
	}
	if !strings.Contains(view, "0") {
		t.Error("empty report should show zero totals")
	}
}
