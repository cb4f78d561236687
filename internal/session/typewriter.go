// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates conversations and message generation.
package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/aria-protocol/aria-tui/internal/gateway"
	"github.com/aria-protocol/aria-tui/internal/model"
)

// Typewriter pacing. The full reveal takes a randomized total duration in
// [minRevealDuration, maxRevealDuration) regardless of text length, with
// 1-3 characters per tick.
const (
	minRevealDuration = 2 * time.Second
	maxRevealDuration = 4 * time.Second

	minChunkRunes = 1
	maxChunkRunes = 3

	// charsPerToken mirrors the rough estimate used everywhere else.
	charsPerToken = 4
)

// typewriter tracks one in-progress simulated reveal. The chunk sizes are
// drawn up front so the tick interval can be sized to land the last
// character at the chosen total duration.
type typewriter struct {
	seq    uint64
	convID string
	msg    *model.Message
	result *gateway.InferenceResult
	runes  []rune
	chunks []int
	next   int // index into chunks
	pos    int // revealed runes
}

// startTypewriter begins revealing a simulated response incrementally.
// The streaming placeholder is appended immediately; ticks then feed it
// until the text is exhausted or the user stops.
func (m *Manager) startTypewriter(seq uint64, convID string, result *gateway.InferenceResult) {
	m.mu.Lock()
	if m.staleLocked(seq) {
		m.mu.Unlock()
		return
	}

	conv := m.findLocked(convID)
	if conv == nil {
		// Target deleted while inferring; drop the response.
		m.generating = false
		m.cancelInfer = nil
		m.mu.Unlock()
		m.notifyChanged()
		return
	}

	runes := []rune(result.Text)
	if len(runes) == 0 {
		m.generating = false
		m.cancelInfer = nil
		m.mu.Unlock()
		m.notifyChanged()
		return
	}

	// Draw the chunk sequence now; with the tick count fixed, the interval
	// places the final chunk at the total duration.
	var chunks []int
	for remaining := len(runes); remaining > 0; {
		n := minChunkRunes + m.rng.Intn(maxChunkRunes-minChunkRunes+1)
		if n > remaining {
			n = remaining
		}
		chunks = append(chunks, n)
		remaining -= n
	}

	spread := float64(maxRevealDuration - minRevealDuration)
	total := minRevealDuration + time.Duration(m.rng.Float64()*spread)
	interval := total / time.Duration(len(chunks))
	if interval < time.Millisecond {
		interval = time.Millisecond
	}

	m.tw = &typewriter{
		seq:    seq,
		convID: convID,
		msg:    conv.AddAssistantMessage(),
		result: result,
		runes:  runes,
		chunks: chunks,
	}
	m.cancelInfer = nil
	m.stats.Backend = result.Backend

	m.tick = m.sched.Every(interval, func() { m.typewriterTick(seq) })
	m.mu.Unlock()

	m.log.Debug("typewriter started",
		zap.Uint64("seq", seq),
		zap.Int("runes", len(runes)),
		zap.Duration("total", total))
	m.notifyChanged()
}

// typewriterTick reveals the next chunk and refreshes the live statistics.
// The final tick finalizes the message and ends the generation.
func (m *Manager) typewriterTick(seq uint64) {
	m.mu.Lock()
	if m.staleLocked(seq) || m.tw == nil || m.tw.seq != seq {
		m.mu.Unlock()
		return
	}

	tw := m.tw
	n := tw.chunks[tw.next]
	tw.next++
	tw.msg.AppendChunk(string(tw.runes[tw.pos : tw.pos+n]))
	tw.pos += n

	m.stats.Update(tw.pos/charsPerToken, m.sched.Now())
	m.stats.Backend = tw.result.Backend

	if tw.next < len(tw.chunks) {
		m.mu.Unlock()
		m.notifyChanged()
		return
	}

	// Reveal complete.
	if m.tick != nil {
		m.tick.Stop()
		m.tick = nil
	}
	m.stats.EnergyMj = tw.result.EnergyMj
	stats := m.stats
	tw.msg.Model = tw.result.Model
	tw.msg.FinalizeStream(&stats)
	m.tw = nil
	m.generating = false
	recorder := m.recorder
	m.mu.Unlock()

	if recorder != nil {
		recorder.RecordInference(stats.TokensGenerated, stats.EnergyMj)
	}
	m.log.Debug("typewriter complete",
		zap.Uint64("seq", seq),
		zap.Int("tokens", stats.TokensGenerated))
	m.notifyChanged()
}
