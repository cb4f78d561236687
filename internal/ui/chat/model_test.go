// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat interface for the aria TUI.
package chat

import (
	"math/rand"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aria-protocol/aria-tui/internal/config"
	"github.com/aria-protocol/aria-tui/internal/gateway"
	"github.com/aria-protocol/aria-tui/internal/schedule"
	"github.com/aria-protocol/aria-tui/internal/session"
	"github.com/aria-protocol/aria-tui/internal/ui/components"
)

func newTestModel(t *testing.T) (*Model, *schedule.Fake) {
	t.Helper()

	fake := schedule.NewFake(time.Unix(1700000000, 0))
	rng := rand.New(rand.NewSource(1))
	mgr := session.NewManager(
		gateway.NewMockGatewayWithRand(rng),
		fake,
		session.WithRand(rng),
	)

	cfg := config.Default()
	cfg.Demo.Enabled = true

	m := New(Deps{
		Session: mgr,
		Gateway: gateway.NewMockGatewayWithRand(rng),
		Config:  cfg,
		Version: "test",
	})
	m.resize(100, 40)
	return m, fake
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// =============================================================================
// SUBMISSION TESTS
// =============================================================================

func TestSubmitSendsMessage(t *testing.T) {
	m, _ := newTestModel(t)

	m.input.SetValue("hello aria")
	_, cmd := m.handleKey(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("submit should start the spinner and stats ticker")
	}

	conv := m.deps.Session.ActiveConversation()
	if len(conv.Messages) == 0 {
		t.Fatal("conversation should contain the user message")
	}
	if conv.Messages[0].Content != "hello aria" {
		t.Errorf("first message = %q, want the submitted text", conv.Messages[0].Content)
	}
	if m.input.Value() != "" {
		t.Error("input should be cleared after submit")
	}
}

func TestSubmitEmptyIsNoop(t *testing.T) {
	m, _ := newTestModel(t)

	m.input.SetValue("   ")
	_, _ = m.handleKey(keyMsg("enter"))

	conv := m.deps.Session.ActiveConversation()
	if len(conv.Messages) != 0 {
		t.Error("blank input should not produce a message")
	}
}

// =============================================================================
// SLASH COMMAND TESTS
// =============================================================================

func TestSlashNewCreatesConversation(t *testing.T) {
	m, _ := newTestModel(t)

	m.input.SetValue("/new")
	_, _ = m.handleKey(keyMsg("enter"))

	if got := len(m.deps.Session.ConversationList()); got != 2 {
		t.Errorf("conversation count = %d, want 2 after /new", got)
	}
}

func TestSlashUnknownShowsToast(t *testing.T) {
	m, _ := newTestModel(t)

	m.input.SetValue("/frobnicate")
	_, cmd := m.handleKey(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("unknown command should queue a toast")
	}
	if m.toasts.Empty() {
		t.Error("toast stack should hold the unknown-command notice")
	}
}

func TestSlashModelRejectsUnknown(t *testing.T) {
	m, _ := newTestModel(t)

	m.input.SetValue("/model not-a-model")
	_, _ = m.handleKey(keyMsg("enter"))

	if got := m.deps.Session.SelectedModel(); got == "not-a-model" {
		t.Error("unknown model ID should not be selected")
	}
}

func TestSlashModelSwitches(t *testing.T) {
	m, _ := newTestModel(t)

	m.input.SetValue("/model bitnet-large")
	_, _ = m.handleKey(keyMsg("enter"))

	if got := m.deps.Session.SelectedModel(); got != "bitnet-large" {
		t.Errorf("SelectedModel() = %q, want bitnet-large", got)
	}
}

func TestSlashHelpOpensOverlay(t *testing.T) {
	m, _ := newTestModel(t)

	m.input.SetValue("/help")
	_, _ = m.handleKey(keyMsg("enter"))

	if m.overlay != overlayHelp {
		t.Error("/help should open the help overlay")
	}

	_, _ = m.handleKey(keyMsg("esc"))
	if m.overlay != overlayNone {
		t.Error("esc should close the overlay")
	}
}

// =============================================================================
// KEY HANDLING TESTS
// =============================================================================

func TestCtrlNNewConversation(t *testing.T) {
	m, _ := newTestModel(t)

	_, _ = m.handleKey(keyMsg("ctrl+n"))
	if got := len(m.deps.Session.ConversationList()); got != 2 {
		t.Errorf("conversation count = %d, want 2 after ctrl+n", got)
	}
}

func TestCtrlSTogglesSidebar(t *testing.T) {
	m, _ := newTestModel(t)

	if m.sidebarVisible {
		t.Fatal("sidebar should start hidden with default config")
	}
	_, _ = m.handleKey(keyMsg("ctrl+s"))
	if !m.sidebarVisible {
		t.Error("ctrl+s should show the sidebar")
	}
	_, _ = m.handleKey(keyMsg("ctrl+s"))
	if m.sidebarVisible {
		t.Error("ctrl+s should hide the sidebar again")
	}
}

func TestCtrlEOpensEnergyOverlay(t *testing.T) {
	m, _ := newTestModel(t)

	_, _ = m.handleKey(keyMsg("ctrl+e"))
	if m.overlay != overlayEnergy {
		t.Error("ctrl+e should open the energy dashboard")
	}
}

func TestEscStopsGeneration(t *testing.T) {
	m, fake := newTestModel(t)

	m.deps.Session.SendMessage("tell me about energy")
	if !m.deps.Session.IsGenerating() {
		t.Fatal("SendMessage should start a generation")
	}

	_, _ = m.handleKey(keyMsg("esc"))
	if m.deps.Session.IsGenerating() {
		t.Error("esc should stop the generation")
	}
	_ = fake
}

func TestQuitStopsAndQuits(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.handleKey(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c should return tea.Quit")
	}
	if !m.quitting {
		t.Error("model should mark itself quitting")
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

// =============================================================================
// BACKEND STATUS TESTS
// =============================================================================

func TestBackendStatusDemoSticks(t *testing.T) {
	m, _ := newTestModel(t)

	_, _ = m.handleBackendStatus(BackendStatusMsg{Live: true})
	if m.backend != components.BackendDemo {
		t.Error("demo mode should keep the DEMO badge regardless of probes")
	}
}

func TestBackendStatusTransitions(t *testing.T) {
	m, _ := newTestModel(t)
	m.deps.Config.Demo.Enabled = false

	_, cmd := m.handleBackendStatus(BackendStatusMsg{Live: true})
	if m.backend != components.BackendNode {
		t.Error("live probe should set the NODE badge")
	}
	if cmd == nil {
		t.Error("badge transition should queue a toast")
	}

	_, _ = m.handleBackendStatus(BackendStatusMsg{Live: false})
	if m.backend != components.BackendOffline {
		t.Error("failed probe should set the OFFLINE badge")
	}
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestViewRendersWithoutSize(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 0

	if m.View() == "" {
		t.Error("pre-resize view should render a placeholder")
	}
}

func TestViewShowsWelcomeWhenEmpty(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	if view == "" {
		t.Fatal("View() should render")
	}
}

func TestDemoDownloadCompletes(t *testing.T) {
	cmd := downloadModelCmd(nil, "bitnet-large")
	if cmd == nil {
		t.Fatal("demo download should produce a command")
	}

	msg := cmd() // waits out the simulated delay
	done, ok := msg.(ModelDownloadedMsg)
	if !ok {
		t.Fatalf("msg = %T, want ModelDownloadedMsg", msg)
	}
	if done.ID != "bitnet-large" {
		t.Errorf("ID = %q, want bitnet-large", done.ID)
	}
	if done.Err != nil {
		t.Errorf("demo download must not fail, got %v", done.Err)
	}
}
