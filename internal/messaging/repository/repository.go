// Package repository provides PostgreSQL persistence for team messaging:
// group chats, direct conversations and messages.
package repository

import (
	"context"
	"errors"

	"educater_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `
	id, channel_id, sender_id, sender_name, body, created_at
`

// Repo implements Repository backed by pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new messaging repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) CreateGroup(ctx context.Context, params CreateGroupParams) (GroupChat, error) {
	query := `
		INSERT INTO group_chats (name, created_by, member_ids)
		VALUES ($1, $2, $3)
		RETURNING id, name, created_by, member_ids, created_at`

	var g GroupChat
	err := r.pool.QueryRow(ctx, query, params.Name, params.CreatedBy, params.MemberIDs).
		Scan(&g.ID, &g.Name, &g.CreatedBy, &g.MemberIDs, &g.CreatedAt)
	if err != nil {
		return GroupChat{}, apperr.Wrap(apperr.KindInternal, "failed to create group chat", err)
	}
	return g, nil
}

func (r *Repo) ListGroups(ctx context.Context, repID string) ([]GroupChat, error) {
	query := `
		SELECT id, name, created_by, member_ids, created_at
		FROM group_chats
		WHERE $1 = ANY(member_ids)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, repID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list group chats", err)
	}
	defer rows.Close()

	var groups []GroupChat
	for rows.Next() {
		var g GroupChat
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.MemberIDs, &g.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan group chat", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *Repo) GetGroup(ctx context.Context, id uuid.UUID) (GroupChat, error) {
	query := `
		SELECT id, name, created_by, member_ids, created_at
		FROM group_chats
		WHERE id = $1`

	var g GroupChat
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&g.ID, &g.Name, &g.CreatedBy, &g.MemberIDs, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GroupChat{}, apperr.NotFound("group chat not found")
		}
		return GroupChat{}, apperr.Wrap(apperr.KindInternal, "failed to load group chat", err)
	}
	return g, nil
}

func (r *Repo) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM group_chats WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete group chat", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("group chat not found")
	}
	return nil
}

// GetOrCreateConversation returns the conversation for a rep pair, creating
// it on first contact. Callers pass IDs in any order; the canonical ordering
// happens here.
func (r *Repo) GetOrCreateConversation(ctx context.Context, repA, repB string) (Conversation, error) {
	if repB < repA {
		repA, repB = repB, repA
	}

	// The no-op DO UPDATE makes RETURNING yield the row on conflict too.
	query := `
		INSERT INTO direct_conversations (rep_a, rep_b)
		VALUES ($1, $2)
		ON CONFLICT (rep_a, rep_b) DO UPDATE SET rep_a = EXCLUDED.rep_a
		RETURNING id, rep_a, rep_b, created_at`

	var conv Conversation
	err := r.pool.QueryRow(ctx, query, repA, repB).
		Scan(&conv.ID, &conv.RepA, &conv.RepB, &conv.CreatedAt)
	if err != nil {
		return Conversation{}, apperr.Wrap(apperr.KindInternal, "failed to open conversation", err)
	}
	return conv, nil
}

func (r *Repo) ListConversations(ctx context.Context, repID string) ([]Conversation, error) {
	query := `
		SELECT id, rep_a, rep_b, created_at
		FROM direct_conversations
		WHERE rep_a = $1 OR rep_b = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, repID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list conversations", err)
	}
	defer rows.Close()

	var convs []Conversation
	for rows.Next() {
		var conv Conversation
		if err := rows.Scan(&conv.ID, &conv.RepA, &conv.RepB, &conv.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan conversation", err)
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

func (r *Repo) InsertMessage(ctx context.Context, params InsertMessageParams) (Message, error) {
	query := `
		INSERT INTO messages (channel_id, sender_id, sender_name, body)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + messageColumns

	var m Message
	err := r.pool.QueryRow(ctx, query, params.ChannelID, params.SenderID, params.SenderName, params.Body).
		Scan(&m.ID, &m.ChannelID, &m.SenderID, &m.SenderName, &m.Body, &m.CreatedAt)
	if err != nil {
		return Message{}, apperr.Wrap(apperr.KindInternal, "failed to store message", err)
	}
	return m, nil
}

// ListMessages returns the most recent messages on a channel in
// chronological order.
func (r *Repo) ListMessages(ctx context.Context, channelID uuid.UUID, limit int) ([]Message, error) {
	if limit < 1 {
		limit = 100
	}

	query := `
		SELECT * FROM (
			SELECT ` + messageColumns + `
			FROM messages
			WHERE channel_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list messages", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.SenderID, &m.SenderName, &m.Body, &m.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan message", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Compile-time check
var _ Repository = (*Repo)(nil)
