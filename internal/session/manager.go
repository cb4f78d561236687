// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates conversations and message generation.
package session

import (
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/aria-protocol/aria-tui/internal/gateway"
	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/schedule"
)

// =============================================================================
// MANAGER
// =============================================================================

// UsageRecorder receives one record per completed generation. The energy
// tracker implements it.
type UsageRecorder interface {
	RecordInference(tokens int, energyMj float64)
}

// Manager owns the conversation list, the active pointer, and the lifecycle
// of message generation. It is the single writer for all of that state; UI
// layers read through accessors that return copies.
//
// Invariants the Manager maintains:
//
//   - the conversation list is never empty
//   - the active pointer always names an existing conversation
//   - at most one generation runs at a time, across all conversations
//
// Public methods never return errors for user actions. Failures surface as
// system messages in the target conversation or as silent no-ops.
type Manager struct {
	mu sync.Mutex

	gw    gateway.Gateway
	sched schedule.Scheduler
	rng   *rand.Rand
	log   *zap.Logger

	recorder UsageRecorder
	notify   func()

	// Conversation store, most recently created first.
	conversations []*model.Conversation
	activeID      string
	selectedModel string

	// Generation state. genSeq invalidates callbacks from superseded or
	// stopped generations.
	generating bool
	aborted    bool
	genSeq     uint64
	stats      model.GenerationStats
	// prevStats restores the frozen statistics when a send dies without
	// producing a response.
	prevStats model.GenerationStats

	cancelInfer func() // cancels an in-flight node request
	tick        schedule.Handle
	tw          *typewriter
}

// Option configures a Manager.
type Option func(*Manager)

// WithRand injects the random source used for typewriter pacing and chunk
// sizing. Tests pass a seeded source for reproducibility.
func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) { m.rng = rng }
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithRecorder routes completed generations to a usage recorder.
func WithRecorder(r UsageRecorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithNotify registers a callback invoked after every visible mutation.
// It runs outside the manager lock and must not call back into mutators
// synchronously.
func WithNotify(fn func()) Option {
	return func(m *Manager) { m.notify = fn }
}

// WithModel sets the initially selected model.
func WithModel(id string) Option {
	return func(m *Manager) { m.selectedModel = id }
}

// NewManager creates a manager seeded with one empty conversation.
func NewManager(gw gateway.Gateway, sched schedule.Scheduler, opts ...Option) *Manager {
	m := &Manager{
		gw:            gw,
		sched:         sched,
		rng:           rand.New(rand.NewSource(rand.Int63())),
		log:           zap.NewNop(),
		selectedModel: model.DefaultModelID,
	}
	for _, opt := range opts {
		opt(m)
	}

	conv := model.NewConversationWithModel(m.selectedModel)
	m.conversations = []*model.Conversation{conv}
	m.activeID = conv.ID

	return m
}

// SetNotify replaces the change callback. Frontends are constructed after
// the manager, so the wiring happens late.
func (m *Manager) SetNotify(fn func()) {
	m.mu.Lock()
	m.notify = fn
	m.mu.Unlock()
}

// notifyChanged invokes the notify callback outside the lock.
func (m *Manager) notifyChanged() {
	m.mu.Lock()
	fn := m.notify
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// findLocked returns the conversation with the given ID, or nil.
func (m *Manager) findLocked(id string) *model.Conversation {
	for _, conv := range m.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// activeLocked returns the active conversation. The active pointer always
// names an existing conversation, so this never returns nil.
func (m *Manager) activeLocked() *model.Conversation {
	if conv := m.findLocked(m.activeID); conv != nil {
		return conv
	}
	// Unreachable while the invariants hold; repair rather than crash.
	m.ensureNonEmptyLocked()
	return m.findLocked(m.activeID)
}

// ensureNonEmptyLocked reseeds the store when the last conversation is
// gone and repoints the active ID at an existing entry.
func (m *Manager) ensureNonEmptyLocked() {
	if len(m.conversations) == 0 {
		conv := model.NewConversationWithModel(m.selectedModel)
		m.conversations = []*model.Conversation{conv}
	}
	if m.findLocked(m.activeID) == nil {
		m.activeID = m.conversations[0].ID
	}
}

// NewConversation creates an empty conversation and makes it active.
func (m *Manager) NewConversation() string {
	m.mu.Lock()
	conv := model.NewConversationWithModel(m.selectedModel)
	m.conversations = append([]*model.Conversation{conv}, m.conversations...)
	m.activeID = conv.ID
	m.mu.Unlock()

	m.log.Debug("conversation created", zap.String("id", conv.ID))
	m.notifyChanged()
	return conv.ID
}

// SwitchConversation makes the named conversation active. Unknown IDs are
// ignored; the previous selection stays.
func (m *Manager) SwitchConversation(id string) {
	m.mu.Lock()
	if m.findLocked(id) == nil {
		m.mu.Unlock()
		return
	}
	m.activeID = id
	m.mu.Unlock()
	m.notifyChanged()
}

// DeleteConversation removes a conversation. Deleting the last one reseeds
// the store with a fresh empty conversation; deleting the active one moves
// the active pointer to the most recent survivor. Unknown IDs are no-ops.
func (m *Manager) DeleteConversation(id string) {
	m.mu.Lock()
	idx := -1
	for i, conv := range m.conversations {
		if conv.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return
	}

	m.conversations = append(m.conversations[:idx], m.conversations[idx+1:]...)
	m.ensureNonEmptyLocked()
	m.mu.Unlock()

	m.log.Debug("conversation deleted", zap.String("id", id))
	m.notifyChanged()
}

// ClearActiveConversation removes all messages from the active
// conversation but keeps the conversation itself.
func (m *Manager) ClearActiveConversation() {
	m.mu.Lock()
	m.activeLocked().ClearHistory()
	m.mu.Unlock()
	m.notifyChanged()
}

// RenameConversation sets a manual title. Unknown IDs are no-ops.
func (m *Manager) RenameConversation(id, title string) {
	m.mu.Lock()
	conv := m.findLocked(id)
	if conv == nil {
		m.mu.Unlock()
		return
	}
	conv.SetTitle(title)
	m.mu.Unlock()
	m.notifyChanged()
}

// Restore replaces the store with persisted conversations, typically at
// startup. An empty slice or unknown active ID falls back to the
// never-empty defaults.
func (m *Manager) Restore(conversations []*model.Conversation, activeID string) {
	m.mu.Lock()
	m.conversations = m.conversations[:0]
	for _, conv := range conversations {
		if conv != nil {
			m.conversations = append(m.conversations, conv)
		}
	}
	m.activeID = activeID
	m.ensureNonEmptyLocked()
	m.mu.Unlock()
	m.notifyChanged()
}

// =============================================================================
// MODEL SELECTION
// =============================================================================

// SelectModel changes the model used for subsequent generations.
// An empty ID is ignored.
func (m *Manager) SelectModel(id string) {
	if id == "" {
		return
	}
	m.mu.Lock()
	m.selectedModel = id
	m.activeLocked().Model = id
	m.mu.Unlock()
	m.notifyChanged()
}

// SelectedModel returns the model used for the next generation.
func (m *Manager) SelectedModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedModel
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ConversationList returns metadata for every conversation, most recently
// created first.
func (m *Manager) ConversationList() []model.ConversationMeta {
	m.mu.Lock()
	defer m.mu.Unlock()
	metas := make([]model.ConversationMeta, 0, len(m.conversations))
	for _, conv := range m.conversations {
		metas = append(metas, conv.GetMeta())
	}
	return metas
}

// ActiveConversation returns a deep copy of the active conversation.
func (m *Manager) ActiveConversation() *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked().Clone()
}

// ActiveConversationID returns the active conversation's ID.
func (m *Manager) ActiveConversationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Snapshot returns deep copies of every conversation for persistence.
func (m *Manager) Snapshot() []*model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Conversation, 0, len(m.conversations))
	for _, conv := range m.conversations {
		out = append(out, conv.Clone())
	}
	return out
}

// IsGenerating reports whether a generation is in flight.
func (m *Manager) IsGenerating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generating
}

// Stats returns the current generation statistics. While a generation
// runs the figures are live; afterwards they hold the final values.
func (m *Manager) Stats() model.GenerationStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
