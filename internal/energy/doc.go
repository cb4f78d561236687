// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package energy accumulates per-inference energy figures for the session.
//
// The node keeps its own lifetime accounting behind GET /v1/energy. This
// package covers the gap: a session-local Tracker fed by the orchestrator
// after each completed generation, so the dashboard has numbers even in
// demo mode. Savings are computed against a 150 mJ per inference GPU
// baseline, the same figure the node uses.
package energy
