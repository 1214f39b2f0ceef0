package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"gymapi/internal/auth"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/realtime"
	"gymapi/internal/repository"
)

const (
	maxMessageLength    = 4000
	conversationMaxRows = 500
)

type ChatService interface {
	Send(ctx context.Context, actor auth.Principal, receiverID, message string) (*model.ChatMessage, error)
	Conversation(ctx context.Context, actor auth.Principal, otherID string) ([]model.ChatMessage, error)
	Conversations(ctx context.Context, actor auth.Principal) ([]model.ConversationSummary, error)
	MarkRead(ctx context.Context, actor auth.Principal, otherID string) (int64, error)

	// Delete removes a message. Only its sender may do so.
	Delete(ctx context.Context, actor auth.Principal, messageID string) error
}

type chatService struct {
	repo     repository.ChatRepository
	profiles repository.ProfileRepository
	events   realtime.Publisher
	log      *logger.Logger
	now      func() time.Time
}

func NewChatService(repo repository.ChatRepository, profiles repository.ProfileRepository, events realtime.Publisher, log *logger.Logger) ChatService {
	if log == nil {
		log = logger.Nop()
	}
	return &chatService{repo: repo, profiles: profiles, events: events, log: log.Component("chat"), now: time.Now}
}

func (s *chatService) Send(ctx context.Context, actor auth.Principal, receiverID, message string) (*model.ChatMessage, error) {
	if receiverID == "" {
		return nil, ErrIDRequired
	}
	if receiverID == actor.ProfileID {
		return nil, invalid("cannot send a message to yourself")
	}
	message = strings.TrimSpace(message)
	if n := utf8.RuneCountInString(message); n == 0 || n > maxMessageLength {
		return nil, invalid("message must be between 1 and %d characters", maxMessageLength)
	}
	receiver, err := s.profiles.FindByID(ctx, receiverID)
	if err != nil {
		return nil, notFound("receiver", err)
	}
	if !actor.InOrg(receiver.OrgID) {
		return nil, fmt.Errorf("receiver %w", ErrNotFound)
	}

	m, err := s.repo.Create(ctx, &model.ChatMessage{
		ID:         uuid.New().String(),
		OrgID:      optional(actor.OrgID),
		SenderID:   actor.ProfileID,
		ReceiverID: receiver.ID,
		Message:    message,
	})
	if err != nil {
		return nil, err
	}
	s.publish(actor, realtime.Insert, m.ID)
	return m, nil
}

func (s *chatService) Conversation(ctx context.Context, actor auth.Principal, otherID string) ([]model.ChatMessage, error) {
	if otherID == "" {
		return nil, ErrIDRequired
	}
	return s.repo.Conversation(ctx, actor.ProfileID, otherID, conversationMaxRows)
}

func (s *chatService) Conversations(ctx context.Context, actor auth.Principal) ([]model.ConversationSummary, error) {
	return s.repo.Conversations(ctx, actor.ProfileID)
}

func (s *chatService) MarkRead(ctx context.Context, actor auth.Principal, otherID string) (int64, error) {
	if otherID == "" {
		return 0, ErrIDRequired
	}
	n, err := s.repo.MarkRead(ctx, actor.ProfileID, otherID, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(actor, realtime.Update, "")
	}
	return n, nil
}

func (s *chatService) Delete(ctx context.Context, actor auth.Principal, messageID string) error {
	if messageID == "" {
		return ErrIDRequired
	}
	m, err := s.repo.FindByID(ctx, messageID)
	if err != nil {
		return notFound("message", err)
	}
	if m.SenderID != actor.ProfileID {
		return fmt.Errorf("only the sender can delete a message: %w", ErrForbidden)
	}
	if err := s.repo.Delete(ctx, messageID); err != nil {
		return notFound("message", err)
	}
	s.publish(actor, realtime.Delete, messageID)
	return nil
}

func (s *chatService) publish(actor auth.Principal, typ, id string) {
	if s.events == nil {
		return
	}
	s.events.Publish(realtime.Event{Table: "chat_messages", Type: typ, RecordID: id, OrgID: actor.OrgID})
}
