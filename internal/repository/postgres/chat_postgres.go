package postgres

import (
	"context"
	"time"

	"gymapi/internal/database"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// ChatPostgres is a PostgreSQL implementation of repository.ChatRepository.
type ChatPostgres struct {
	db database.DBTX
}

// NewChatPostgres creates a new ChatPostgres repository.
func NewChatPostgres(db database.DBTX) *ChatPostgres {
	return &ChatPostgres{db: db}
}

var _ repository.ChatRepository = (*ChatPostgres)(nil)

const chatColumns = `id, org_id, sender_id, receiver_id, message, read_at, created_at`

func scanChatMessage(s scanner) (*model.ChatMessage, error) {
	var m model.ChatMessage
	if err := s.Scan(&m.ID, &m.OrgID, &m.SenderID, &m.ReceiverID, &m.Message, &m.ReadAt, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ChatPostgres) Create(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error) {
	const q = `
		INSERT INTO chat_messages (id, org_id, sender_id, receiver_id, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + chatColumns
	return scanChatMessage(r.db.QueryRowContext(ctx, q, m.ID, m.OrgID, m.SenderID, m.ReceiverID, m.Message))
}

func (r *ChatPostgres) FindByID(ctx context.Context, id string) (*model.ChatMessage, error) {
	const q = `SELECT ` + chatColumns + ` FROM chat_messages WHERE id = $1`
	return scanChatMessage(r.db.QueryRowContext(ctx, q, id))
}

// Conversation merges both directions and returns the most recent limit
// messages in ascending order.
func (r *ChatPostgres) Conversation(ctx context.Context, a, b string, limit int) ([]model.ChatMessage, error) {
	const q = `
		SELECT ` + chatColumns + ` FROM (
			SELECT ` + chatColumns + ` FROM chat_messages
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		) recent
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, a, b, limitArg(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ChatMessage, 0)
	for rows.Next() {
		m, err := scanChatMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Conversations returns one summary per counterpart, most recent first.
func (r *ChatPostgres) Conversations(ctx context.Context, me string) ([]model.ConversationSummary, error) {
	const q = `
		SELECT s.counterpart_id, s.id, s.org_id, s.sender_id, s.receiver_id, s.message, s.read_at, s.created_at, s.unread
		FROM (
			SELECT DISTINCT ON (m.counterpart_id)
				m.counterpart_id, m.id, m.org_id, m.sender_id, m.receiver_id, m.message, m.read_at, m.created_at,
				(SELECT COUNT(*) FROM chat_messages u
				 WHERE u.sender_id = m.counterpart_id AND u.receiver_id = $1 AND u.read_at IS NULL) AS unread
			FROM (
				SELECT ` + chatColumns + `,
					CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS counterpart_id
				FROM chat_messages
				WHERE sender_id = $1 OR receiver_id = $1
			) m
			ORDER BY m.counterpart_id, m.created_at DESC
		) s
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, q, me)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ConversationSummary, 0)
	for rows.Next() {
		var cs model.ConversationSummary
		m := &cs.LastMessage
		if err := rows.Scan(
			&cs.CounterpartID,
			&m.ID, &m.OrgID, &m.SenderID, &m.ReceiverID, &m.Message, &m.ReadAt, &m.CreatedAt,
			&cs.UnreadCount,
		); err != nil {
			return nil, err
		}
		items = append(items, cs)
	}
	return items, rows.Err()
}

func (r *ChatPostgres) MarkRead(ctx context.Context, me, other string, at time.Time) (int64, error) {
	const q = `
		UPDATE chat_messages SET read_at = $3
		WHERE receiver_id = $1 AND sender_id = $2 AND read_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, q, me, other, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ChatPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM chat_messages WHERE id = $1`
	return execOne(ctx, r.db, q, id)
}
