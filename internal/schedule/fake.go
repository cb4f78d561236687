// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package schedule abstracts repeating timers behind an injectable interface.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// =============================================================================
// FAKE SCHEDULER
// =============================================================================

// Fake is a Scheduler driven by a manual clock. Advance moves time forward
// and fires due timers synchronously on the calling goroutine, which makes
// timer-driven orchestration fully deterministic in tests.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	nextID int
}

// NewFake creates a fake scheduler starting at the given instant.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

type fakeTimer struct {
	id       int
	fake     *Fake
	interval time.Duration
	due      time.Time
	fn       func()
	stopped  bool
}

// Every implements Scheduler.
func (f *Fake) Every(interval time.Duration, fn func()) Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := &fakeTimer{
		id:       f.nextID,
		fake:     f,
		interval: interval,
		due:      f.now.Add(interval),
		fn:       fn,
	}
	f.timers = append(f.timers, t)
	return t
}

// Now implements Scheduler.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d, firing every timer that comes due
// in order. Callbacks run without the scheduler lock held, so they may
// stop timers or schedule new ones.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)

	for {
		next := f.nextDueLocked(target)
		if next == nil {
			break
		}
		f.now = next.due
		next.due = next.due.Add(next.interval)
		fn := next.fn
		f.mu.Unlock()
		fn()
		f.mu.Lock()
	}

	f.now = target
	f.mu.Unlock()
}

// nextDueLocked returns the earliest live timer due at or before target.
// Ties break on creation order.
func (f *Fake) nextDueLocked(target time.Time) *fakeTimer {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	f.timers = live

	sort.SliceStable(f.timers, func(i, j int) bool {
		if f.timers[i].due.Equal(f.timers[j].due) {
			return f.timers[i].id < f.timers[j].id
		}
		return f.timers[i].due.Before(f.timers[j].due)
	})

	for _, t := range f.timers {
		if !t.due.After(target) {
			return t
		}
	}
	return nil
}

// Stop implements Handle.
func (t *fakeTimer) Stop() {
	t.fake.mu.Lock()
	defer t.fake.mu.Unlock()
	t.stopped = true
}
