// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package schedule abstracts repeating timers behind an injectable interface.
package schedule

import (
	"sync"
	"time"
)

// =============================================================================
// SCHEDULER INTERFACE
// =============================================================================

// Scheduler creates repeating timers. The orchestrator depends on this
// interface instead of the time package directly so tests can drive ticks
// with a fake clock.
type Scheduler interface {
	// Every calls fn repeatedly with the given interval between calls,
	// starting one interval from now, until the returned handle is stopped.
	Every(interval time.Duration, fn func()) Handle

	// Now returns the scheduler's view of the current time.
	Now() time.Time
}

// Handle stops a scheduled timer. Stop is idempotent and safe to call
// concurrently with a pending fire.
type Handle interface {
	Stop()
}

// =============================================================================
// TIMER SCHEDULER
// =============================================================================

// TimerScheduler is the production Scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

// NewTimerScheduler returns the wall-clock scheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// Every implements Scheduler.
func (s *TimerScheduler) Every(interval time.Duration, fn func()) Handle {
	h := &timerHandle{}
	h.mu.Lock()
	h.timer = time.AfterFunc(interval, func() {
		h.mu.Lock()
		if h.stopped {
			h.mu.Unlock()
			return
		}
		h.timer.Reset(interval)
		h.mu.Unlock()
		fn()
	})
	h.mu.Unlock()
	return h
}

// Now implements Scheduler.
func (s *TimerScheduler) Now() time.Time {
	return time.Now()
}

type timerHandle struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// Stop cancels the timer. A tick already in flight may still run once.
func (h *timerHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	if h.timer != nil {
		h.timer.Stop()
	}
}
