// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat history in a local SQLite database.
//
// The database lives at ~/.aria/history.db by default and holds three
// tables: conversations, messages, and settings. Messages carry their
// generation metadata (backend, model, token counts, energy) so a restored
// session shows the same statistics as the live one did.
//
// The store is written for a single process. It opens one connection in
// WAL mode and serializes writes through transactions; there is no
// cross-process locking beyond what SQLite provides.
package storage
