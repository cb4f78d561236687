// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain line-mode chat interface for aria.
package cli

import (
	"math/rand"
	"testing"
	"time"

	"github.com/aria-protocol/aria-tui/internal/config"
	"github.com/aria-protocol/aria-tui/internal/gateway"
	"github.com/aria-protocol/aria-tui/internal/schedule"
	"github.com/aria-protocol/aria-tui/internal/session"
)

func newTestREPL(t *testing.T) *REPL {
	t.Helper()

	rng := rand.New(rand.NewSource(1))
	mgr := session.NewManager(
		gateway.NewMockGatewayWithRand(rng),
		schedule.NewFake(time.Unix(1700000000, 0)),
		session.WithRand(rng),
	)

	return New(Deps{
		Session: mgr,
		Config:  config.Default(),
		Version: "test",
	})
}

func TestHandleCommandNew(t *testing.T) {
	r := newTestREPL(t)

	if !r.handleCommand("/new") {
		t.Fatal("/new should keep the REPL running")
	}
	if got := len(r.deps.Session.ConversationList()); got != 2 {
		t.Errorf("conversation count = %d, want 2", got)
	}
}

func TestHandleCommandQuit(t *testing.T) {
	r := newTestREPL(t)

	for _, cmd := range []string{"/quit", "/q", "/exit"} {
		if r.handleCommand(cmd) {
			t.Errorf("%s should exit the REPL", cmd)
		}
	}
}

func TestHandleCommandModelSwitch(t *testing.T) {
	r := newTestREPL(t)

	r.handleCommand("/model bitnet-large")
	if got := r.deps.Session.SelectedModel(); got != "bitnet-large" {
		t.Errorf("SelectedModel() = %q, want bitnet-large", got)
	}

	r.handleCommand("/model no-such-model")
	if got := r.deps.Session.SelectedModel(); got != "bitnet-large" {
		t.Errorf("unknown model should not change selection, got %q", got)
	}
}

func TestHandleCommandUnknownKeepsRunning(t *testing.T) {
	r := newTestREPL(t)

	if !r.handleCommand("/frobnicate") {
		t.Error("unknown command should not exit the REPL")
	}
}

func TestNotifyFuncNeverBlocks(t *testing.T) {
	r := newTestREPL(t)

	notify := r.NotifyFunc()
	for i := 0; i < 10; i++ {
		notify() // buffered channel of one; extra sends must drop
	}

	select {
	case <-r.changed:
	default:
		t.Error("a wakeup should be pending after notify")
	}
}

func TestHandleCommandSetAndGet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	r := newTestREPL(t)

	if !r.handleCommand("/set ui.theme light") {
		t.Fatal("/set should keep the REPL running")
	}
	if got := r.deps.Config.UI.Theme; got != "light" {
		t.Errorf("UI.Theme = %q, want light", got)
	}

	val, err := r.deps.Config.Get("ui.theme")
	if err != nil {
		t.Fatalf("Get(ui.theme) error: %v", err)
	}
	if val != "light" {
		t.Errorf("Get(ui.theme) = %v, want light", val)
	}

	// The change reaches the config file.
	saved, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if saved.UI.Theme != "light" {
		t.Errorf("persisted UI.Theme = %q, want light", saved.UI.Theme)
	}
}

func TestHandleCommandSetRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	r := newTestREPL(t)

	before := r.deps.Config.Logging.Level
	r.handleCommand("/set logging.level shouting")
	if got := r.deps.Config.Logging.Level; got != before {
		t.Errorf("invalid value must not apply, Logging.Level = %q", got)
	}

	r.handleCommand("/set nonsense.key 1")
	r.handleCommand("/set")
}
