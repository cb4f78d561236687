// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aria TUI.
package components

import (
	"strings"
	"testing"
	"time"

	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

func newTestMessageView() *MessageView {
	v := NewMessageView(styles.NewTheme())
	v.SetWidth(80)
	v.RenderMarkdown = false
	return v
}

func TestMessageViewRendersUser(t *testing.T) {
	v := newTestMessageView()
	msg := model.NewUserMessage("how much energy does this use?")

	out := v.Render(msg)
	if !strings.Contains(out, "how much energy does this use?") {
		t.Error("Render() should contain the message content")
	}
	if !strings.Contains(out, msg.Role.DisplayName()) {
		t.Error("Render() should contain the sender name")
	}
}

func TestMessageViewStreamingCursor(t *testing.T) {
	v := newTestMessageView()
	msg := model.NewAssistantMessage()
	msg.AppendChunk("Partial answ")

	out := v.Render(msg)
	if !strings.Contains(out, "Partial answ_") {
		t.Errorf("streaming message should end with the reveal cursor, got %q", out)
	}
}

func TestMessageViewStatsFooter(t *testing.T) {
	v := newTestMessageView()
	msg := model.NewAssistantMessage()
	msg.AppendChunk("Done.")
	msg.FinalizeStream(&model.GenerationStats{
		TokensGenerated: 12,
		TokensPerSecond: 24.0,
		Elapsed:         500 * time.Millisecond,
		EnergyMj:        1.5,
		Backend:         "node",
	})

	out := v.Render(msg)
	if msg.FormatStats() == "" {
		t.Fatal("completed message should have stats")
	}
	if !strings.Contains(out, "tokens") {
		t.Errorf("Render() should include the stats footer, got %q", out)
	}
}

func TestMessageViewEmpty(t *testing.T) {
	v := newTestMessageView()
	msg := model.NewMessage(model.RoleAssistant, "")

	if out := v.Render(msg); out != "" {
		t.Errorf("empty finished message should render nothing, got %q", out)
	}
}

func TestMessageViewPlainTextCodeFence(t *testing.T) {
	v := newTestMessageView()
	v.RenderMarkdown = false

	msg := model.NewMessage(model.RoleAssistant, "Here you go:\n```go\nfmt.Println(\"hi\")\n```\nDone.")
	out := v.Render(msg)

	if !strings.Contains(out, "Println") {
		t.Errorf("fenced code should survive rendering, got %q", out)
	}
	if strings.Contains(out, "```") {
		t.Errorf("fence markers should be consumed, got %q", out)
	}
}
