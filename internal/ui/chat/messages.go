// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat interface for the aria TUI.
//
// This file defines the Bubble Tea message types used by the chat
// interface. Messages fall into four groups:
//   - Session: state-change notifications bridged from session.Manager
//   - Backend: node liveness polling and model catalog operations
//   - Persistence: autosave and export outcomes
//   - UI: timers that drive the spinner, toasts, and live stats
package chat

import (
	"github.com/aria-protocol/aria-tui/internal/energy"
	"github.com/aria-protocol/aria-tui/internal/gateway"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionChangedMsg signals that the session manager mutated visible state.
// The manager's notify callback sends one per mutation; the update loop
// re-reads the conversation and stats on receipt.
type SessionChangedMsg struct{}

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// BackendStatusMsg reports the result of one liveness probe.
type BackendStatusMsg struct {
	Live bool
}

// backendPollMsg schedules the next liveness probe.
type backendPollMsg struct{}

// ModelListMsg delivers the node's model catalog.
type ModelListMsg struct {
	States []gateway.ModelState
	Err    error
}

// ModelDownloadedMsg reports a finished model download.
type ModelDownloadedMsg struct {
	ID  string
	Err error
}

// EnergyReportMsg delivers a fresh energy report for the dashboard.
type EnergyReportMsg struct {
	Report energy.Report
}

// =============================================================================
// PERSISTENCE MESSAGES
// =============================================================================

// autosaveTickMsg fires on the autosave interval.
type autosaveTickMsg struct{}

// SaveResultMsg reports the outcome of a snapshot save.
type SaveResultMsg struct {
	Err error
}

// ExportDoneMsg reports the outcome of a markdown export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// UI TIMER MESSAGES
// =============================================================================

// statsTickMsg refreshes the live generation stats in the status bar.
type statsTickMsg struct{}
