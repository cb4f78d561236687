// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates conversations and message generation.
package session

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/aria-protocol/aria-tui/internal/gateway"
	"github.com/aria-protocol/aria-tui/internal/model"
)

// nodeOfflineNotice is shown when the node is expected but unreachable.
const nodeOfflineNotice = "Backend is not running. Start the node first: aria start"

// =============================================================================
// SEND
// =============================================================================

// SendMessage appends the text as a user message to the active conversation
// and starts a generation for it. Empty input and input during an active
// generation are silently ignored.
//
// The response is routed to the conversation that was active at send time,
// even if the user switches away before it completes.
func (m *Manager) SendMessage(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	m.mu.Lock()
	if m.generating {
		// One generation at a time, across all conversations.
		m.mu.Unlock()
		return
	}

	conv := m.activeLocked()
	conv.AddUserMessage(text)

	m.generating = true
	m.aborted = false
	m.genSeq++
	seq := m.genSeq
	m.prevStats = m.stats
	m.stats = model.GenerationStats{StartTime: m.sched.Now()}

	convID := conv.ID
	modelID := m.selectedModel
	history := conv.ToChatMessages()
	m.mu.Unlock()

	m.log.Debug("generation started",
		zap.Uint64("seq", seq),
		zap.String("conversation", convID),
		zap.String("model", modelID))
	m.notifyChanged()

	go m.dispatch(seq, convID, modelID, history)
}

// dispatch runs one generation off the UI goroutine: liveness probe, then
// inference, then either atomic recording (node) or a typewriter reveal
// (simulated). Every exit path clears the generation flag.
func (m *Manager) dispatch(seq uint64, convID, modelID string, history []gateway.ChatMessage) {
	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	if m.staleLocked(seq) {
		m.mu.Unlock()
		cancel()
		return
	}
	m.cancelInfer = cancel
	m.mu.Unlock()

	if !m.gw.Live(ctx) {
		cancel()
		m.finishWithSystem(seq, convID, nodeOfflineNotice)
		return
	}

	result, err := m.gw.Infer(ctx, history, modelID)
	cancel()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			// User stopped; StopGeneration already settled the state.
			return
		}
		m.log.Warn("inference failed", zap.Uint64("seq", seq), zap.Error(err))
		m.finishWithSystem(seq, convID, "Inference failed: "+err.Error())
		return
	}

	if result.Simulated {
		m.startTypewriter(seq, convID, result)
		return
	}

	m.recordComplete(seq, convID, result)
}

// staleLocked reports whether callbacks for seq should be dropped.
func (m *Manager) staleLocked(seq uint64) bool {
	return seq != m.genSeq || m.aborted
}

// =============================================================================
// COMPLETION PATHS
// =============================================================================

// recordComplete appends a fully formed assistant message in one step.
// Used for node responses, which arrive complete.
func (m *Manager) recordComplete(seq uint64, convID string, result *gateway.InferenceResult) {
	m.mu.Lock()
	if m.staleLocked(seq) {
		m.mu.Unlock()
		return
	}

	now := m.sched.Now()
	elapsed := now.Sub(m.stats.StartTime)

	// The node reports throughput rather than streaming tokens, so the
	// count is approximated from elapsed time at that rate.
	tokens := int(elapsed.Seconds()*result.TokensPerSecond + 0.5)
	if tokens <= 0 {
		tokens = result.TokensGenerated
	}

	m.stats.Update(tokens, now)
	m.stats.TokensPerSecond = result.TokensPerSecond
	m.stats.EnergyMj = result.EnergyMj
	m.stats.Backend = result.Backend
	stats := m.stats

	if conv := m.findLocked(convID); conv != nil {
		msg := model.NewMessage(model.RoleAssistant, result.Text)
		msg.TokenCount = stats.TokensGenerated
		msg.TokensPerSec = stats.TokensPerSecond
		msg.TotalDuration = stats.Elapsed
		msg.EnergyMj = stats.EnergyMj
		msg.Backend = stats.Backend
		msg.Model = result.Model
		conv.AddMessage(msg)
	}
	// A deleted target drops the response silently.

	m.generating = false
	m.cancelInfer = nil
	recorder := m.recorder
	m.mu.Unlock()

	if recorder != nil {
		recorder.RecordInference(stats.TokensGenerated, stats.EnergyMj)
	}
	m.log.Debug("generation complete",
		zap.Uint64("seq", seq),
		zap.Int("tokens", stats.TokensGenerated),
		zap.Float64("tok_s", stats.TokensPerSecond))
	m.notifyChanged()
}

// finishWithSystem ends a generation by appending a system message to the
// target conversation. No response was produced, so the statistics revert
// to their value before the send.
func (m *Manager) finishWithSystem(seq uint64, convID, text string) {
	m.mu.Lock()
	if m.staleLocked(seq) {
		m.mu.Unlock()
		return
	}
	if conv := m.findLocked(convID); conv != nil {
		conv.AddSystemMessage(text)
	}
	m.stats = m.prevStats
	m.generating = false
	m.cancelInfer = nil
	m.mu.Unlock()
	m.notifyChanged()
}

// =============================================================================
// STOP
// =============================================================================

// StopGeneration cancels the in-flight generation, if any. Content already
// revealed by the typewriter is kept; the statistics freeze at their last
// values. Calling it with nothing in flight is a no-op, as is calling it
// twice.
func (m *Manager) StopGeneration() {
	m.mu.Lock()
	if !m.generating {
		m.mu.Unlock()
		return
	}

	m.aborted = true
	m.generating = false

	if m.tick != nil {
		m.tick.Stop()
		m.tick = nil
	}
	if m.tw != nil {
		// Keep the partial reveal.
		stats := m.stats
		m.tw.msg.FinalizeStream(&stats)
		m.tw = nil
	}

	cancel := m.cancelInfer
	m.cancelInfer = nil
	seq := m.genSeq
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.log.Debug("generation stopped", zap.Uint64("seq", seq))
	m.notifyChanged()
}
