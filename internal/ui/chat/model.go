// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat interface for the aria TUI.
package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/aria-protocol/aria-tui/internal/config"
	"github.com/aria-protocol/aria-tui/internal/energy"
	"github.com/aria-protocol/aria-tui/internal/gateway"
	"github.com/aria-protocol/aria-tui/internal/session"
	"github.com/aria-protocol/aria-tui/internal/storage"
	"github.com/aria-protocol/aria-tui/internal/ui/components"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

// =============================================================================
// OVERLAYS
// =============================================================================

// overlay names the panel drawn over the chat column, if any.
type overlay int

const (
	overlayNone overlay = iota
	overlayEnergy
	overlayModels
	overlayHelp
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Deps carries everything the chat model needs. Node and Store may be nil:
// demo mode has no node client, and history can be disabled.
type Deps struct {
	Session *session.Manager
	Gateway gateway.Gateway
	Node    *gateway.NodeClient
	Tracker *energy.Tracker
	Store   *storage.Store
	Config  *config.Config
	Log     *zap.Logger
	Version string
}

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	deps  Deps
	theme *styles.Theme
	keys  KeyMap

	width  int
	height int

	// Components
	header    *components.Header
	viewport  *components.ChatViewport
	input     *components.InputArea
	spinner   components.Spinner
	statusBar *components.StatusBar
	sidebar   *components.Sidebar
	energy    *components.EnergyDashboard
	models    *components.ModelPanel
	welcome   components.Welcome
	toasts    *components.ToastStack

	// UI state
	backend        components.Backend
	overlay        overlay
	sidebarVisible bool
	quitting       bool

	log *zap.Logger
}

// New creates the chat model.
func New(deps Deps) *Model {
	theme := styles.NewTheme()
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	m := &Model{
		deps:      deps,
		theme:     theme,
		keys:      DefaultKeyMap(),
		header:    components.NewHeader(theme),
		viewport:  components.NewChatViewport(theme),
		input:     components.NewInputArea(theme),
		spinner:   components.NewSpinner(theme),
		statusBar: components.NewStatusBar(theme),
		sidebar:   components.NewSidebar(theme),
		energy:    components.NewEnergyDashboard(theme),
		models:    components.NewModelPanel(theme),
		welcome:   components.NewWelcome(theme),
		toasts:    components.NewToastStack(theme),
		backend:   components.BackendOffline,
		log:       log,
	}

	cfg := deps.Config
	if cfg != nil {
		m.sidebarVisible = cfg.UI.SidebarVisible
		m.statusBar.ShowEnergy = cfg.UI.ShowEnergyBar
		m.viewport.SetRenderMarkdown(cfg.UI.RenderMarkdown)
	}
	if cfg != nil && cfg.Demo.Enabled {
		m.backend = components.BackendDemo
	}

	m.header.SetModel(deps.Session.SelectedModel())
	m.header.SetBackend(m.backend)
	m.statusBar.Backend = m.backend
	m.statusBar.ModelName = deps.Session.SelectedModel()
	m.welcome.SetVersion(deps.Version)
	m.welcome.SetModelName(deps.Session.SelectedModel())
	m.welcome.SetBackend(m.backend)
	m.models.SetSelected(deps.Session.SelectedModel())

	return m
}

// Init starts the background loops: liveness polling, autosave, and input
// focus.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.input.Focus(),
		checkBackendCmd(m.deps.Gateway),
		backendPollCmd(m.pollInterval()),
	}
	if interval := m.autosaveInterval(); interval > 0 && m.deps.Store != nil {
		cmds = append(cmds, autosaveCmd(interval))
	}
	return tea.Batch(cmds...)
}

func (m *Model) pollInterval() time.Duration {
	if m.deps.Config != nil && m.deps.Config.Node.StatusPollSecs > 0 {
		return time.Duration(m.deps.Config.Node.StatusPollSecs) * time.Second
	}
	return time.Second
}

func (m *Model) autosaveInterval() time.Duration {
	if m.deps.Config == nil || !m.deps.Config.History.Enabled {
		return 0
	}
	return time.Duration(m.deps.Config.History.AutosaveSecs) * time.Second
}

// demoMode reports whether the simulated backend is active.
func (m *Model) demoMode() bool {
	return m.deps.Config != nil && m.deps.Config.Demo.Enabled
}

// setBackend updates every component that shows the backend badge.
func (m *Model) setBackend(b components.Backend) {
	m.backend = b
	m.header.SetBackend(b)
	m.statusBar.Backend = b
	m.welcome.SetBackend(b)
}

// refreshFromSession re-reads all visible session state. Called on every
// SessionChangedMsg so the UI never drifts from the manager.
func (m *Model) refreshFromSession() {
	conv := m.deps.Session.ActiveConversation()
	if conv != nil {
		m.viewport.SetMessages(conv.Messages)
	}
	m.sidebar.SetItems(m.deps.Session.ConversationList(), m.deps.Session.ActiveConversationID())

	name := m.deps.Session.SelectedModel()
	m.header.SetModel(name)
	m.statusBar.ModelName = name
	m.welcome.SetModelName(name)

	if m.deps.Session.IsGenerating() {
		stats := m.deps.Session.Stats()
		m.statusBar.SetGeneration(true, stats.TokensGenerated, stats.TokensPerSecond, stats.Elapsed)
	} else {
		m.statusBar.SetGeneration(false, 0, 0, 0)
		m.spinner.Stop()
	}

	if m.deps.Tracker != nil {
		m.statusBar.TotalEnergyMj = m.deps.Tracker.Report(time.Now()).TotalEnergyMj
	}
}

// pushToast queues a transient notice.
func (m *Model) pushToast(level components.ToastLevel, msg string) tea.Cmd {
	first := m.toasts.Empty()
	m.toasts.Push(components.NewToast(level, msg))
	if first {
		return components.ToastTickCmd()
	}
	return nil
}
