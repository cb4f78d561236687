// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat interface for the aria TUI.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aria-protocol/aria-tui/internal/energy"
	"github.com/aria-protocol/aria-tui/internal/gateway"
	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/storage"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// probeTimeout bounds one liveness probe so a wedged node cannot stall
// the poll loop.
const probeTimeout = 5 * time.Second

// demoDownloadDelay is how long a simulated model download takes.
const demoDownloadDelay = 1500 * time.Millisecond

// checkBackendCmd probes the gateway once.
func checkBackendCmd(gw gateway.Gateway) tea.Cmd {
	return func() tea.Msg {
		if gw == nil {
			return BackendStatusMsg{Live: false}
		}
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		return BackendStatusMsg{Live: gw.Live(ctx)}
	}
}

// backendPollCmd schedules the next liveness probe.
func backendPollCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = time.Second
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return backendPollMsg{}
	})
}

// listModelsCmd fetches the node's model catalog. Only the real node client
// serves it; in demo mode the panel shows the static catalog.
func listModelsCmd(node *gateway.NodeClient) tea.Cmd {
	return func() tea.Msg {
		if node == nil {
			return ModelListMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		states, err := node.ListModels(ctx)
		return ModelListMsg{States: states, Err: err}
	}
}

// downloadModelCmd asks the node to download a model. Downloads are long;
// the timeout is generous.
func downloadModelCmd(node *gateway.NodeClient, id string) tea.Cmd {
	if node == nil {
		// Demo mode: the download completes after a beat.
		return tea.Tick(demoDownloadDelay, func(time.Time) tea.Msg {
			return ModelDownloadedMsg{ID: id}
		})
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		err := node.DownloadModel(ctx, id)
		return ModelDownloadedMsg{ID: id, Err: err}
	}
}

// energyReportCmd snapshots the session energy tracker.
func energyReportCmd(tracker *energy.Tracker) tea.Cmd {
	return func() tea.Msg {
		if tracker == nil {
			return EnergyReportMsg{}
		}
		return EnergyReportMsg{Report: tracker.Report(time.Now())}
	}
}

// autosaveCmd schedules the next autosave tick.
func autosaveCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return autosaveTickMsg{}
	})
}

// saveSnapshotCmd persists the full conversation snapshot.
func saveSnapshotCmd(store *storage.Store, conversations []*model.Conversation, activeID string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return SaveResultMsg{Err: store.SaveAll(conversations, activeID)}
	}
}

// exportCmd writes one conversation to a markdown file.
func exportCmd(store *storage.Store, id, path string) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return ExportDoneMsg{Path: path, Err: storage.ErrDatabaseError}
		}
		return ExportDoneMsg{Path: path, Err: store.ExportMarkdown(id, path)}
	}
}

// statsTickCmd refreshes the live stats line while a generation runs.
func statsTickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return statsTickMsg{}
	})
}
