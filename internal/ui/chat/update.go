// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat interface for the aria TUI.
package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/storage"
	"github.com/aria-protocol/aria-tui/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles all Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SessionChangedMsg:
		m.refreshFromSession()
		if m.deps.Session.IsGenerating() && !m.spinner.Active() {
			return m, tea.Batch(m.spinner.Start(), statsTickCmd())
		}
		return m, nil

	case BackendStatusMsg:
		return m.handleBackendStatus(msg)

	case backendPollMsg:
		return m, tea.Batch(checkBackendCmd(m.deps.Gateway), backendPollCmd(m.pollInterval()))

	case ModelListMsg:
		if msg.Err != nil {
			return m, m.pushToast(components.ToastWarning, "model list unavailable: "+msg.Err.Error())
		}
		m.models.SetStates(msg.States)
		return m, nil

	case ModelDownloadedMsg:
		if msg.Err != nil {
			return m, m.pushToast(components.ToastError, "download failed: "+msg.Err.Error())
		}
		return m, tea.Batch(
			m.pushToast(components.ToastSuccess, "downloaded "+msg.ID),
			listModelsCmd(m.deps.Node),
		)

	case EnergyReportMsg:
		m.energy.SetReport(msg.Report)
		return m, nil

	case autosaveTickMsg:
		return m, tea.Batch(
			saveSnapshotCmd(m.deps.Store, m.deps.Session.Snapshot(), m.deps.Session.ActiveConversationID()),
			autosaveCmd(m.autosaveInterval()),
		)

	case SaveResultMsg:
		if msg.Err != nil {
			m.log.Warn("autosave failed", zap.Error(msg.Err))
			return m, m.pushToast(components.ToastError, "history save failed")
		}
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			return m, m.pushToast(components.ToastError, "export failed: "+msg.Err.Error())
		}
		return m, m.pushToast(components.ToastSuccess, "exported to "+msg.Path)

	case statsTickMsg:
		if !m.deps.Session.IsGenerating() {
			return m, nil
		}
		stats := m.deps.Session.Stats()
		m.statusBar.SetGeneration(true, stats.TokensGenerated, stats.TokensPerSecond, stats.Elapsed)
		return m, statsTickCmd()

	case components.ToastTickMsg:
		if m.toasts.Prune() {
			return m, components.ToastTickCmd()
		}
		return m, nil
	}

	// Spinner frames and any other component-internal messages.
	if cmd := m.spinner.Update(msg); cmd != nil {
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.welcome.SetSize(width, height)
	m.energy.SetWidth(minInt(width-4, 64))
	m.models.SetWidth(minInt(width-4, 72))

	chatWidth := width
	if m.sidebarVisible {
		chatWidth -= sidebarWidth
		m.sidebar.SetSize(sidebarWidth, height-chromeHeight)
	}
	m.input.SetWidth(chatWidth)
	m.viewport.SetSize(chatWidth, maxInt(height-chromeHeight, 3))
}

// handleBackendStatus folds a liveness probe into the backend badge. Demo
// mode never leaves DEMO; the probe only distinguishes NODE from OFFLINE.
func (m *Model) handleBackendStatus(msg BackendStatusMsg) (tea.Model, tea.Cmd) {
	if m.demoMode() {
		m.setBackend(components.BackendDemo)
		return m, nil
	}

	prev := m.backend
	if msg.Live {
		m.setBackend(components.BackendNode)
	} else {
		m.setBackend(components.BackendOffline)
	}

	if prev != m.backend {
		switch m.backend {
		case components.BackendNode:
			return m, m.pushToast(components.ToastSuccess, "node connected")
		case components.BackendOffline:
			return m, m.pushToast(components.ToastWarning, "node offline")
		}
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always wins.
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}

	if m.overlay != overlayNone {
		return m.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Stop):
		if m.deps.Session.IsGenerating() {
			m.deps.Session.StopGeneration()
			return m, nil
		}
		if m.sidebarVisible {
			m.sidebarVisible = false
			m.resize(m.width, m.height)
		}
		return m, nil

	case key.Matches(msg, m.keys.NewConversation):
		m.deps.Session.NewConversation()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebarVisible = !m.sidebarVisible
		m.resize(m.width, m.height)
		m.sidebar.SetItems(m.deps.Session.ConversationList(), m.deps.Session.ActiveConversationID())
		return m, nil

	case key.Matches(msg, m.keys.Energy):
		m.overlay = overlayEnergy
		return m, energyReportCmd(m.deps.Tracker)

	case key.Matches(msg, m.keys.Models):
		m.overlay = overlayModels
		return m, listModelsCmd(m.deps.Node)

	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return m, nil
	}

	// Sidebar navigation while it is open.
	if m.sidebarVisible {
		switch msg.String() {
		case "ctrl+p":
			m.sidebar.CursorUp()
			return m, nil
		case "ctrl+j":
			m.sidebar.CursorDown()
			return m, nil
		case "ctrl+o":
			if sel := m.sidebar.Selected(); sel.ID != "" {
				m.deps.Session.SwitchConversation(sel.ID)
			}
			return m, nil
		}
	}

	// Viewport scrolling.
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down),
		key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown),
		key.Matches(msg, m.keys.Home), key.Matches(msg, m.keys.End):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Submit) {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Esc, and the key that opened the overlay, both close it.
	closes := key.Matches(msg, m.keys.Stop) ||
		(m.overlay == overlayEnergy && (key.Matches(msg, m.keys.Energy) || msg.String() == "e")) ||
		(m.overlay == overlayModels && key.Matches(msg, m.keys.Models)) ||
		(m.overlay == overlayHelp && key.Matches(msg, m.keys.Help))
	if closes {
		m.overlay = overlayNone
		return m, nil
	}

	if m.overlay == overlayModels {
		switch msg.String() {
		case "up", "k":
			m.models.CursorUp()
			return m, nil
		case "down", "j":
			m.models.CursorDown()
			return m, nil
		case "enter":
			info := m.models.Cursor()
			m.deps.Session.SelectModel(info.ID)
			m.models.SetSelected(info.ID)
			m.persistModel(info.ID)
			m.overlay = overlayNone
			return m, m.pushToast(components.ToastSuccess, "model set to "+info.Name)
		case "d":
			info := m.models.Cursor()
			return m, tea.Batch(
				m.pushToast(components.ToastInfo, "downloading "+info.Name),
				downloadModelCmd(m.deps.Node, info.ID),
			)
		}
	}

	return m, nil
}

// =============================================================================
// SUBMISSION
// =============================================================================

func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if cmd, ok := parseSlashCommand(text); ok {
		m.input.Reset()
		return m.executeSlash(cmd)
	}

	m.input.Reset()
	m.deps.Session.SendMessage(text)
	return m, tea.Batch(m.spinner.Start(), statsTickCmd())
}

func (m *Model) executeSlash(cmd slashCommand) (tea.Model, tea.Cmd) {
	switch canonicalSlashName(cmd.Name) {
	case "new":
		m.deps.Session.NewConversation()
		return m, nil

	case "clear":
		m.deps.Session.ClearActiveConversation()
		return m, nil

	case "rename":
		if cmd.Args == "" {
			return m, m.pushToast(components.ToastWarning, "usage: /rename <title>")
		}
		m.deps.Session.RenameConversation(m.deps.Session.ActiveConversationID(), cmd.Args)
		return m, nil

	case "delete":
		m.deps.Session.DeleteConversation(m.deps.Session.ActiveConversationID())
		return m, nil

	case "model":
		if cmd.Args == "" {
			m.overlay = overlayModels
			return m, listModelsCmd(m.deps.Node)
		}
		if !model.KnownModel(cmd.Args) {
			return m, m.pushToast(components.ToastWarning, "unknown model: "+cmd.Args)
		}
		m.deps.Session.SelectModel(cmd.Args)
		m.models.SetSelected(cmd.Args)
		m.persistModel(cmd.Args)
		return m, m.pushToast(components.ToastSuccess, "model set to "+cmd.Args)

	case "energy":
		m.overlay = overlayEnergy
		return m, energyReportCmd(m.deps.Tracker)

	case "export":
		conv := m.deps.Session.ActiveConversation()
		if conv == nil {
			return m, nil
		}
		path := cmd.Args
		if path == "" {
			path = defaultExportPath(conv.GetTitle(), time.Now().Format("20060102-150405"))
		}
		// Export reads from the store, so flush the snapshot first.
		return m, tea.Sequence(
			saveSnapshotCmd(m.deps.Store, m.deps.Session.Snapshot(), m.deps.Session.ActiveConversationID()),
			exportCmd(m.deps.Store, conv.ID, path),
		)

	case "help":
		m.overlay = overlayHelp
		return m, nil

	case "quit":
		return m.quit()

	default:
		return m, m.pushToast(components.ToastWarning, "unknown command: /"+cmd.Name)
	}
}

// quit persists the snapshot synchronously and exits. A failed save must
// not trap the user in the UI.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.deps.Session.StopGeneration()

	if m.deps.Store != nil {
		if err := m.deps.Store.SaveAll(m.deps.Session.Snapshot(), m.deps.Session.ActiveConversationID()); err != nil {
			m.log.Warn("final save failed", zap.Error(err))
		}
	}

	return m, tea.Quit
}

// persistModel records the selection so the next start picks it up.
// Best effort.
func (m *Model) persistModel(id string) {
	if m.deps.Store == nil {
		return
	}
	if err := m.deps.Store.SetSetting(storage.SettingSelectedModel, id); err != nil {
		m.log.Debug("could not persist model selection", zap.Error(err))
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
