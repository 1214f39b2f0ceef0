package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatPostgres_Conversation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t1 := time.Now().Add(-time.Minute)
	t2 := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM chat_messages (.+) LIMIT").
		WithArgs("me", "you", 200).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "sender_id", "receiver_id", "message", "read_at", "created_at"}).
			AddRow("m1", nil, "me", "you", "ciao", nil, t1).
			AddRow("m2", nil, "you", "me", "hey", t2, t2))

	msgs, err := NewChatPostgres(db).Conversation(context.Background(), "me", "you", 200)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.NotNil(t, msgs[1].ReadAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatPostgres_ConversationsAndMarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewChatPostgres(db)
	now := time.Now()

	mock.ExpectQuery("SELECT s.counterpart_id").
		WithArgs("me").
		WillReturnRows(sqlmock.NewRows([]string{"counterpart_id", "id", "org_id", "sender_id", "receiver_id", "message", "read_at", "created_at", "unread"}).
			AddRow("you", "m2", nil, "you", "me", "hey", nil, now, 3))
	mock.ExpectExec("UPDATE chat_messages SET read_at").
		WithArgs("me", "you", now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	convs, err := repo.Conversations(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "you", convs[0].CounterpartID)
	assert.Equal(t, 3, convs[0].UnreadCount)

	n, err := repo.MarkRead(context.Background(), "me", "you", now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
