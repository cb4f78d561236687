// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// TITLE DERIVATION TESTS
// =============================================================================

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short message used verbatim",
			input: "What is BitNet",
			want:  "What is BitNet",
		},
		{
			name:  "first sentence wins",
			input: "Explain quantization. Then give an example with numbers.",
			want:  "Explain quantization",
		},
		{
			name:  "long message truncated with ellipsis",
			input: strings.Repeat("a", 80),
			want:  strings.Repeat("a", 40) + "...",
		},
		{
			name:  "greeting only maps to placeholder",
			input: "hello!",
			want:  DefaultTitle,
		},
		{
			name:  "greeting with punctuation and case",
			input: "  Good Morning!! ",
			want:  DefaultTitle,
		},
		{
			name:  "greeting followed by content is kept",
			input: "hello, can you summarize this file",
			want:  "hello, can you summarize this file",
		},
		{
			name:  "whitespace only maps to placeholder",
			input: "   ",
			want:  DefaultTitle,
		},
		{
			name:  "multiline uses first line",
			input: "Fix this bug\nsecond line is ignored",
			want:  "Fix this bug",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveTitle(tc.input)
			if got != tc.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestDeriveTitle_UnicodeTruncation(t *testing.T) {
	// 50 multibyte runes must truncate on rune boundaries, not bytes.
	input := strings.Repeat("é", 50)
	got := DeriveTitle(input)
	want := strings.Repeat("é", 40) + "..."
	if got != want {
		t.Errorf("DeriveTitle unicode = %q, want %q", got, want)
	}
}

func TestConversation_TitleStability(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("First question about energy")
	first := conv.GetTitle()

	conv.AddAssistantMessage()
	conv.AddUserMessage("A completely different second question")

	if conv.GetTitle() != first {
		t.Errorf("title changed after later messages: %q -> %q", first, conv.GetTitle())
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AddMessages(t *testing.T) {
	conv := NewConversation()
	if !conv.IsEmpty() {
		t.Error("new conversation should be empty")
	}

	user := conv.AddUserMessage("hello world program in go")
	asst := conv.AddAssistantMessage()
	conv.AddSystemMessage("node offline")

	if conv.MessageCount() != 3 {
		t.Fatalf("MessageCount = %d, want 3", conv.MessageCount())
	}
	if user.Role != RoleUser || asst.Role != RoleAssistant {
		t.Error("roles not assigned correctly")
	}
	if !asst.IsStreaming {
		t.Error("assistant message should start in streaming state")
	}
	if conv.ID == "" || user.ID == "" {
		t.Error("IDs should be generated")
	}
}

func TestConversation_FinalizeLast(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.AddAssistantMessage()

	conv.AppendToLast("par")
	conv.AppendToLast("tial")

	stats := &GenerationStats{
		TokensGenerated: 12,
		TokensPerSecond: 48.5,
		Elapsed:         2 * time.Second,
		EnergyMj:        3.2,
		Backend:         "node",
	}
	conv.FinalizeLast(stats)

	last := conv.GetLastMessage()
	if last.IsStreaming {
		t.Error("message should no longer be streaming")
	}
	if last.Content != "partial" {
		t.Errorf("Content = %q, want %q", last.Content, "partial")
	}
	if last.TokenCount != 12 || last.Backend != "node" {
		t.Error("stats not attached to message")
	}

	// Finalizing again is a no-op.
	last.Content = "partial"
	conv.FinalizeLast(nil)
	if last.Content != "partial" {
		t.Error("second finalize should not alter content")
	}
}

func TestConversation_ToChatMessages(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("q1")
	conv.AddSystemMessage("backend offline")
	asst := conv.AddAssistantMessage()
	asst.AppendChunk("a1")
	asst.FinalizeStream(nil)
	conv.AddAssistantMessage() // empty placeholder, should be skipped

	msgs := conv.ToChatMessages()
	if len(msgs) != 2 {
		t.Fatalf("got %d wire messages, want 2", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("unexpected roles: %v %v", msgs[0].Role, msgs[1].Role)
	}
}

func TestConversation_PruneOldMessages(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("keep me")
	for i := 0; i < MaxMessages+10; i++ {
		conv.AddUserMessage("filler")
	}

	nonSystem := 0
	systemKept := false
	for _, msg := range conv.Messages {
		if msg.Role == RoleSystem {
			systemKept = true
		} else {
			nonSystem++
		}
	}
	if nonSystem != MaxMessages {
		t.Errorf("kept %d non-system messages, want %d", nonSystem, MaxMessages)
	}
	if !systemKept {
		t.Error("system message should survive pruning")
	}
}

func TestConversation_Clone(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("original")

	clone := conv.Clone()
	clone.Messages[0].Content = "mutated"

	if conv.Messages[0].Content != "original" {
		t.Error("clone shares message storage with original")
	}
	if clone.ID != conv.ID {
		t.Error("clone should keep the same ID")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_EstimateTokens(t *testing.T) {
	msg := NewUserMessage("12345678") // 8 chars -> 2 tokens
	if got := msg.EstimateTokens(); got != 2 {
		t.Errorf("EstimateTokens = %d, want 2", got)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage(strings.Repeat("x", 100))
	got := msg.Preview(20)
	if len([]rune(got)) != 20 {
		t.Errorf("Preview length = %d runes, want 20", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Preview %q should end with ellipsis", got)
	}
}

func TestGenerationStats_Update(t *testing.T) {
	start := time.Now()
	stats := &GenerationStats{StartTime: start}
	stats.Update(100, start.Add(2*time.Second))

	if stats.TokensGenerated != 100 {
		t.Errorf("TokensGenerated = %d, want 100", stats.TokensGenerated)
	}
	if stats.Elapsed != 2*time.Second {
		t.Errorf("Elapsed = %v, want 2s", stats.Elapsed)
	}
	if stats.TokensPerSecond < 49 || stats.TokensPerSecond > 51 {
		t.Errorf("TokensPerSecond = %v, want ~50", stats.TokensPerSecond)
	}
}

// =============================================================================
// MODEL CATALOG TESTS
// =============================================================================

func TestModels_Registry(t *testing.T) {
	for _, id := range []string{"bitnet-large", "bitnet-2b", "llama3-8b-1.58"} {
		if !KnownModel(id) {
			t.Errorf("catalog model %q missing from registry", id)
		}
	}
	if !KnownModel(DefaultModelID) {
		t.Errorf("default model %q not in catalog", DefaultModelID)
	}
}

func TestGetModelInfo_Unknown(t *testing.T) {
	info := GetModelInfo("mystery-model")
	if info.ID != "mystery-model" || info.Name != "mystery-model" {
		t.Errorf("unknown model should echo its ID, got %+v", info)
	}
}

func TestModelInfo_SizeString(t *testing.T) {
	tests := []struct {
		mb   int
		want string
	}{
		{400, "400 MB"},
		{1300, "1.3 GB"},
		{4200, "4.2 GB"},
	}
	for _, tc := range tests {
		info := ModelInfo{FileSizeMB: tc.mb}
		if got := info.SizeString(); got != tc.want {
			t.Errorf("SizeString(%d) = %q, want %q", tc.mb, got, tc.want)
		}
	}
}
