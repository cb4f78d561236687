// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "ARIA"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Reveal state (not persisted). A strings.Builder keeps incremental
	// appends linear while the typewriter is running.
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder `json:"-"`

	// Token statistics
	TokenCount int `json:"token_count,omitempty"`

	// Inference metadata (for assistant messages)
	Backend       string        `json:"backend,omitempty"` // "node" or "mock"
	Model         string        `json:"model,omitempty"`
	TokensPerSec  float64       `json:"tokens_per_sec,omitempty"`
	EnergyMj      float64       `json:"energy_mj,omitempty"` // millijoules consumed
	TotalDuration time.Duration `json:"total_duration_ns,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message in the streaming state.
// Content accumulates through AppendChunk until FinalizeStream is called.
func NewAssistantMessage() *Message {
	return &Message{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendChunk appends a chunk of revealed text to a streaming message.
func (m *Message) AppendChunk(chunk string) {
	if m.IsStreaming {
		m.streamContent.WriteString(chunk)
	}
}

// FinalizeStream completes the reveal and attaches generation metadata.
// Calling it on a non-streaming message is a no-op.
func (m *Message) FinalizeStream(stats *GenerationStats) {
	if !m.IsStreaming {
		return
	}

	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false

	if stats != nil {
		m.TokenCount = stats.TokensGenerated
		m.TokensPerSec = stats.TokensPerSecond
		m.TotalDuration = stats.Elapsed
		m.EnergyMj = stats.EnergyMj
		m.Backend = stats.Backend
	}
}

// GetDisplayContent returns the content to display (streaming or final).
func (m *Message) GetDisplayContent() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := m.GetDisplayContent()
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// EstimateTokens gives a rough estimate of token count.
// Uses the approximation of ~4 characters per token.
func (m *Message) EstimateTokens() int {
	content := m.GetDisplayContent()
	return (len(content) + 3) / 4
}

// FormatStats returns a formatted string of message statistics.
func (m *Message) FormatStats() string {
	if m.Role != RoleAssistant || m.TotalDuration == 0 {
		return ""
	}

	// Format: "2.5s | 128 tokens | 51.2 tok/s | 4.1 mJ"
	s := formatDuration(m.TotalDuration.Seconds()) + " | " +
		formatInt(m.TokenCount) + " tokens | " +
		formatFloat64(m.TokensPerSec) + " tok/s"
	if m.EnergyMj > 0 {
		s += " | " + formatFloat64(m.EnergyMj) + " mJ"
	}
	return s
}

// =============================================================================
// GENERATION STATS
// =============================================================================

// GenerationStats holds timing, token, and energy figures for one generation.
// It is reset when a generation starts, updated while it runs, and frozen
// when it completes or is stopped.
type GenerationStats struct {
	StartTime time.Time `json:"-"`

	TokensGenerated int           `json:"tokens_generated"`
	TokensPerSecond float64       `json:"tokens_per_second"`
	Elapsed         time.Duration `json:"elapsed_ns"`
	EnergyMj        float64       `json:"energy_mj"`
	Backend         string        `json:"backend"`
}

// Update recomputes the derived metrics from a token count and the time now.
func (s *GenerationStats) Update(tokens int, now time.Time) {
	s.TokensGenerated = tokens
	s.Elapsed = now.Sub(s.StartTime)
	if s.Elapsed > 0 {
		s.TokensPerSecond = float64(tokens) / s.Elapsed.Seconds()
	}
}

// Format returns a formatted string of the statistics.
func (s *GenerationStats) Format() string {
	return formatDuration(s.Elapsed.Seconds()) + " | " +
		formatInt(s.TokensGenerated) + " tokens | " +
		formatFloat64(s.TokensPerSecond) + " tok/s"
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatInt formats a non-negative-leaning integer without using fmt.
func formatInt(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// formatFloat64 formats a float with one decimal place, truncating.
func formatFloat64(f float64) string {
	if f != f { // NaN
		return "NaN"
	}

	negative := f < 0
	if negative {
		f = -f
	}

	whole := int(f)
	frac := int((f - float64(whole)) * 10)

	out := formatInt(whole) + "." + formatInt(frac)
	if negative {
		return "-" + out
	}
	return out
}

// formatDuration formats seconds as a duration string.
func formatDuration(seconds float64) string {
	if seconds < 1 {
		ms := int(seconds * 1000)
		return formatInt(ms) + "ms"
	}
	return formatFloat64(seconds) + "s"
}
