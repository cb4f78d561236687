// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package schedule abstracts repeating timers behind an injectable interface.
//
// The orchestrator never touches the time package for its typewriter and
// polling loops. It asks a Scheduler for repeating timers and for the
// current time, which lets tests substitute Fake and drive every tick
// synchronously with Advance.
//
//   - TimerScheduler: production implementation over time.AfterFunc
//   - Fake: manual clock for deterministic tests
package schedule
