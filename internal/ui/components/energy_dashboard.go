// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aria-protocol/aria-tui/internal/energy"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

// =============================================================================
// ENERGY DASHBOARD
// =============================================================================

// EnergyDashboard renders the session's energy report as an overlay panel.
type EnergyDashboard struct {
	Width  int
	report energy.Report
	theme  *styles.Theme
}

// NewEnergyDashboard creates an empty dashboard.
func NewEnergyDashboard(theme *styles.Theme) *EnergyDashboard {
	return &EnergyDashboard{
		Width: 60,
		theme: theme,
	}
}

// SetWidth updates the panel width.
func (d *EnergyDashboard) SetWidth(width int) {
	d.Width = width
}

// SetReport replaces the displayed report.
func (d *EnergyDashboard) SetReport(report energy.Report) {
	d.report = report
}

// View renders the dashboard panel.
func (d *EnergyDashboard) View() string {
	r := d.report

	rows := []string{
		d.theme.PanelTitle.Render("Energy Report"),
		"",
		d.row("Inferences", fmtNumber(int(r.TotalInferences))),
		d.row("Tokens generated", fmtNumber(int(r.TotalTokensGenerated))),
		d.row("Energy used", fmtFloat(r.TotalEnergyMj, 2)+" mJ"),
		d.row("Per token", fmtFloat(r.AvgEnergyPerTokenMj, 3)+" mJ"),
		d.row("Session uptime", fmtDurationShort(r.SessionUptime)),
		"",
		d.theme.PanelTitle.Render("vs GPU baseline (" + fmtFloat(energy.GpuBaselineMj, 0) + " mJ/inference)"),
		"",
		d.row("Energy saved", fmtFloat(r.EnergySavedMj, 2)+" mJ"),
		d.savedBar(r.ReductionPercent),
		d.row("CO2 avoided", fmtFloat(r.Co2SavedKg*1000, 4)+" g"),
		d.row("Cost avoided", "$"+fmtFloat(r.CostSavedUsd, 6)),
		"",
		d.theme.PanelHint.Render("press e or esc to close"),
	}

	panel := strings.Join(rows, "\n")
	return d.theme.PanelBox.Width(d.Width).Render(panel)
}

func (d *EnergyDashboard) row(label, value string) string {
	return d.theme.PanelLabel.Render(label) + d.theme.PanelValue.Render(value)
}

func (d *EnergyDashboard) savedBar(percent float64) string {
	barWidth := d.Width - 22
	if barWidth < 10 {
		barWidth = 10
	}
	bar := styles.RenderProgressBar(barWidth, percent)
	return d.theme.PanelLabel.Render("Reduction") +
		lipgloss.NewStyle().Foreground(styles.Emerald).Render(bar) +
		d.theme.PanelValue.Render(" "+fmtPercent(percent))
}
