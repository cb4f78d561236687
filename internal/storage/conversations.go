// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversations and settings in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aria-protocol/aria-tui/internal/model"
)

// =============================================================================
// SAVE
// =============================================================================

// Save upserts one conversation and its messages in a single transaction.
// Streaming placeholders are persisted with whatever content they have.
func (s *Store) Save(conv *model.Conversation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if err := saveConversationTx(tx, conv); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// SaveAll replaces the stored conversation set with the given snapshot and
// records the active conversation ID. Conversations absent from the
// snapshot are removed.
func (s *Store) SaveAll(conversations []*model.Conversation, activeID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if _, err := tx.Exec(`DELETE FROM conversations`); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	for _, conv := range conversations {
		if err := saveConversationTx(tx, conv); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		SettingActiveConversation, activeID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

func saveConversationTx(tx *sql.Tx, conv *model.Conversation) error {
	_, err := tx.Exec(
		`INSERT INTO conversations (id, title, model, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			model = excluded.model,
			updated_at = excluded.updated_at`,
		conv.ID, conv.GetTitle(), conv.Model,
		conv.CreatedAt.UnixNano(), conv.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	// Rewrite messages wholesale; per-message diffing is not worth it at
	// chat history sizes.
	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conv.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	for i, msg := range conv.Messages {
		_, err := tx.Exec(
			`INSERT INTO messages
				(id, conversation_id, seq, role, content, created_at,
				 token_count, backend, model, tokens_per_sec, energy_mj, duration_ns)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			msg.ID, conv.ID, i, string(msg.Role), msg.GetDisplayContent(),
			msg.Timestamp.UnixNano(), msg.TokenCount, msg.Backend, msg.Model,
			msg.TokensPerSec, msg.EnergyMj, int64(msg.TotalDuration))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load retrieves one conversation with its full message history.
func (s *Store) Load(id string) (*model.Conversation, error) {
	conv := &model.Conversation{}
	var created, updated int64

	err := s.db.QueryRow(
		`SELECT id, title, model, created_at, updated_at
		 FROM conversations WHERE id = ?`, id).
		Scan(&conv.ID, &conv.Title, &conv.Model, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	conv.CreatedAt = time.Unix(0, created)
	conv.UpdatedAt = time.Unix(0, updated)

	if err := s.loadMessages(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *Store) loadMessages(conv *model.Conversation) error {
	rows, err := s.db.Query(
		`SELECT id, role, content, created_at,
			token_count, backend, model, tokens_per_sec, energy_mj, duration_ns
		 FROM messages WHERE conversation_id = ? ORDER BY seq`, conv.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		msg := &model.Message{}
		var role string
		var created, duration int64
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &created,
			&msg.TokenCount, &msg.Backend, &msg.Model,
			&msg.TokensPerSec, &msg.EnergyMj, &duration); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		msg.Role = model.Role(role)
		msg.Timestamp = time.Unix(0, created)
		msg.TotalDuration = time.Duration(duration)
		conv.Messages = append(conv.Messages, msg)
	}
	return rows.Err()
}

// LoadAll retrieves every conversation, most recently updated first, along
// with the persisted active conversation ID.
func (s *Store) LoadAll() ([]*model.Conversation, string, error) {
	rows, err := s.db.Query(
		`SELECT id FROM conversations ORDER BY updated_at DESC`)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	conversations := make([]*model.Conversation, 0, len(ids))
	for _, id := range ids {
		conv, err := s.Load(id)
		if err != nil {
			return nil, "", err
		}
		conversations = append(conversations, conv)
	}

	activeID, err := s.GetSetting(SettingActiveConversation)
	if err != nil {
		return nil, "", err
	}
	return conversations, activeID, nil
}

// =============================================================================
// LIST / SEARCH / DELETE
// =============================================================================

// List returns lightweight metadata for every conversation, most recently
// updated first.
func (s *Store) List() ([]model.ConversationMeta, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.title, c.model, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
		 FROM conversations c ORDER BY c.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var metas []model.ConversationMeta
	for rows.Next() {
		var meta model.ConversationMeta
		var created, updated int64
		if err := rows.Scan(&meta.ID, &meta.Title, &meta.Model,
			&created, &updated, &meta.MessageCount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		meta.CreatedAt = time.Unix(0, created)
		meta.UpdatedAt = time.Unix(0, updated)
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Search returns metadata for conversations whose title or message content
// matches the query, case-insensitively.
func (s *Store) Search(query string) ([]model.ConversationMeta, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.Query(
		`SELECT DISTINCT c.id, c.title, c.model, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM messages m2 WHERE m2.conversation_id = c.id)
		 FROM conversations c
		 LEFT JOIN messages m ON m.conversation_id = c.id
		 WHERE LOWER(c.title) LIKE ? OR LOWER(m.content) LIKE ?
		 ORDER BY c.updated_at DESC`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var metas []model.ConversationMeta
	for rows.Next() {
		var meta model.ConversationMeta
		var created, updated int64
		if err := rows.Scan(&meta.ID, &meta.Title, &meta.Model,
			&created, &updated, &meta.MessageCount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		meta.CreatedAt = time.Unix(0, created)
		meta.UpdatedAt = time.Unix(0, updated)
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Delete removes a conversation and its messages.
func (s *Store) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// Prune deletes the oldest conversations beyond max, by last update. A max
// of zero or less means unlimited. Returns how many were removed.
func (s *Store) Prune(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}
	result, err := s.db.Exec(
		`DELETE FROM conversations WHERE id IN (
			SELECT id FROM conversations
			ORDER BY updated_at DESC LIMIT -1 OFFSET ?
		)`, max)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown writes a conversation transcript as a Markdown file.
func (s *Store) ExportMarkdown(id, path string) error {
	conv, err := s.Load(id)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("# " + conv.GetTitle() + "\n\n")
	b.WriteString("- Model: " + conv.Model + "\n")
	b.WriteString("- Created: " + conv.CreatedAt.Format(time.RFC3339) + "\n")
	b.WriteString("- Messages: " + fmt.Sprint(len(conv.Messages)) + "\n\n")

	for _, msg := range conv.Messages {
		b.WriteString("## " + msg.Role.DisplayName() + "\n\n")
		b.WriteString(msg.Content + "\n\n")
		if stats := msg.FormatStats(); stats != "" {
			b.WriteString("_" + stats + "_\n\n")
		}
	}

	return os.WriteFile(path, []byte(b.String()), 0600)
}
