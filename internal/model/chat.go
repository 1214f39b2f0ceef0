package model

import "time"

// ChatMessage is a direct message between two profiles.
type ChatMessage struct {
	ID         string     `json:"id"`
	OrgID      *string    `json:"org_id,omitempty"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Message    string     `json:"message"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ConversationSummary is the latest message exchanged with one counterpart.
type ConversationSummary struct {
	CounterpartID string      `json:"counterpart_id"`
	LastMessage   ChatMessage `json:"last_message"`
	UnreadCount   int         `json:"unread_count"`
}
