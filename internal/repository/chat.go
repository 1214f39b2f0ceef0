package repository

import (
	"context"
	"time"

	"gymapi/internal/model"
)

// ChatRepository defines data access for direct messages.
type ChatRepository interface {
	Create(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error)
	FindByID(ctx context.Context, id string) (*model.ChatMessage, error)

	// Conversation returns messages between a and b in both directions, oldest first.
	Conversation(ctx context.Context, a, b string, limit int) ([]model.ChatMessage, error)

	// Conversations returns the latest message per counterpart of me with unread counts.
	Conversations(ctx context.Context, me string) ([]model.ConversationSummary, error)

	// MarkRead stamps unread messages sent by other to me.
	MarkRead(ctx context.Context, me, other string, at time.Time) (int64, error)

	Delete(ctx context.Context, id string) error
}
