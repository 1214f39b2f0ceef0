package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymapi/internal/model"
	"gymapi/internal/realtime"
	repoMocks "gymapi/internal/repository/mocks"
)

func newChatFixture() (*chatService, *repoMocks.MockChatRepository, *repoMocks.MockProfileRepository, *recorder) {
	repo := new(repoMocks.MockChatRepository)
	profiles := new(repoMocks.MockProfileRepository)
	events := &recorder{}
	return NewChatService(repo, profiles, events, nil).(*chatService), repo, profiles, events
}

func TestChatService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("sends", func(t *testing.T) {
		svc, repo, profiles, events := newChatFixture()
		profiles.On("FindByID", ctx, "pt-1").Return(&model.Profile{ID: "pt-1", Role: model.RolePT}, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(m *model.ChatMessage) bool {
			return m.SenderID == "athlete-1" && m.ReceiverID == "pt-1" && m.Message == "ciao"
		})).Return(&model.ChatMessage{ID: "m-1"}, nil)

		m, err := svc.Send(ctx, athleteActor, "pt-1", "  ciao ")
		require.NoError(t, err)
		assert.Equal(t, "m-1", m.ID)
		require.Len(t, events.events, 1)
		assert.Equal(t, realtime.Event{Table: "chat_messages", Type: realtime.Insert, RecordID: "m-1"}, events.events[0])
	})

	t.Run("length bounds", func(t *testing.T) {
		svc, _, _, _ := newChatFixture()
		_, err := svc.Send(ctx, athleteActor, "pt-1", "   ")
		assert.ErrorIs(t, err, ErrValidation)

		_, err = svc.Send(ctx, athleteActor, "pt-1", strings.Repeat("è", 4001))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("exactly 4000 runes is accepted", func(t *testing.T) {
		svc, repo, profiles, _ := newChatFixture()
		profiles.On("FindByID", ctx, "pt-1").Return(&model.Profile{ID: "pt-1"}, nil)
		repo.On("Create", ctx, mock.Anything).Return(&model.ChatMessage{ID: "m-2"}, nil)

		_, err := svc.Send(ctx, athleteActor, "pt-1", strings.Repeat("è", 4000))
		assert.NoError(t, err)
	})

	t.Run("unknown receiver", func(t *testing.T) {
		svc, _, profiles, _ := newChatFixture()
		profiles.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, err := svc.Send(ctx, athleteActor, "ghost", "hi")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("self", func(t *testing.T) {
		svc, _, _, _ := newChatFixture()
		_, err := svc.Send(ctx, athleteActor, "athlete-1", "hi")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestChatService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newChatFixture()

	repo.On("FindByID", ctx, "m-1").Return(&model.ChatMessage{ID: "m-1", SenderID: "pt-1", ReceiverID: "athlete-1"}, nil)
	repo.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)
	repo.On("Delete", ctx, "m-1").Return(nil)

	assert.ErrorIs(t, svc.Delete(ctx, athleteActor, "m-1"), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, athleteActor, "ghost"), ErrNotFound)
	assert.NoError(t, svc.Delete(ctx, trainerActor, "m-1"))
	repo.AssertNumberOfCalls(t, "Delete", 1)
}

func TestChatService_Conversations(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newChatFixture()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.On("Conversation", ctx, "athlete-1", "pt-1", conversationMaxRows).Return([]model.ChatMessage{{ID: "1"}, {ID: "2"}}, nil)
	repo.On("Conversations", ctx, "athlete-1").Return([]model.ConversationSummary{{CounterpartID: "pt-1", UnreadCount: 2}}, nil)
	repo.On("MarkRead", ctx, "athlete-1", "pt-1", now).Return(int64(2), nil)

	msgs, err := svc.Conversation(ctx, athleteActor, "pt-1")
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	sums, err := svc.Conversations(ctx, athleteActor)
	require.NoError(t, err)
	assert.Equal(t, 2, sums[0].UnreadCount)

	n, err := svc.MarkRead(ctx, athleteActor, "pt-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = svc.Conversation(ctx, athleteActor, "")
	assert.ErrorIs(t, err, ErrIDRequired)
}
