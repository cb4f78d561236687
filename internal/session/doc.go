// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates conversations and message generation.
//
// Manager is the single owner of chat state: the conversation list, the
// active conversation pointer, the selected model, and the one-at-a-time
// generation lifecycle. UI layers call its mutators and read copies back
// through accessors; a notify callback tells them when something changed.
//
// A generation follows one of three paths after dispatch:
//
//   - node path: the gateway is live, the full response arrives at once
//     and is recorded atomically with its throughput and energy figures
//   - simulated path: the gateway synthesizes the response locally and
//     the Manager reveals it through a typewriter driven by the injected
//     scheduler, a few characters per tick over a randomized 2-4 seconds
//   - offline path: the gateway is down, a system message tells the user
//     to start the node
//
// Generations are cooperative about cancellation: StopGeneration keeps
// whatever the typewriter already revealed and freezes the statistics.
// All randomness and timing flow through injected sources, so the whole
// lifecycle is deterministic under schedule.Fake and a seeded rand.
package session
