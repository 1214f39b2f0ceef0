package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymapi/internal/model"
	"gymapi/internal/repository"
)

var paymentCols = []string{"id", "org_id", "athlete_id", "amount", "method_text", "lessons", "status", "is_reversal", "ref_payment_id", "notes", "created_by", "created_at"}

func TestPaymentPostgres_CreateReversal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPaymentPostgres(db)
	ref := "pay-1"
	rev := &model.Payment{
		ID:           "pay-2",
		AthleteID:    "a1",
		Amount:       -50,
		MethodText:   "cash (Reversal: duplicate)",
		Status:       model.PaymentCompleted,
		IsReversal:   true,
		RefPaymentID: &ref,
	}

	mock.ExpectQuery("INSERT INTO payments").
		WithArgs("pay-2", nil, "a1", float64(-50), "cash (Reversal: duplicate)", 0, "completed", true, "pay-1", nil, nil).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow("pay-2", nil, "a1", -50.0, "cash (Reversal: duplicate)", 0, "completed", true, "pay-1", nil, nil, time.Now()))

	got, err := repo.Create(context.Background(), rev)
	require.NoError(t, err)
	assert.True(t, got.IsReversal)
	assert.Equal(t, -50.0, got.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_ListAndStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPaymentPostgres(db)
	ctx := context.Background()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM payments").
		WithArgs(nil, "a1", nil).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM payments (.+) ORDER BY created_at DESC").
		WithArgs(nil, "a1", nil, 10, 0).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow("pay-1", nil, "a1", 50.0, "cash", 5, "completed", false, nil, nil, nil, time.Now()))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\)").
		WithArgs("org-1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"revenue", "lessons", "count"}).AddRow(150.0, 12, 3))

	res, err := repo.List(ctx, model.PaymentFilter{AthleteID: "a1"}, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Nil(t, res.Items[0].RefPaymentID)

	st, err := repo.Stats(ctx, "org-1", from, to)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStats{Revenue: 150, Lessons: 12, Count: 3}, *st)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_AddLessons(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO lesson_counters").
		WithArgs("a1", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPaymentPostgres(db).AddLessons(context.Background(), "a1", 10))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	run := PaymentTx(db)

	t.Run("commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO lesson_counters").
			WithArgs("athlete-1", 10).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := run(context.Background(), func(repo repository.PaymentRepository) error {
			return repo.AddLessons(context.Background(), "athlete-1", 10)
		})
		assert.NoError(t, err)
	})

	t.Run("rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO lesson_counters").
			WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		err := run(context.Background(), func(repo repository.PaymentRepository) error {
			return repo.AddLessons(context.Background(), "athlete-1", 10)
		})
		assert.EqualError(t, err, "boom")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
