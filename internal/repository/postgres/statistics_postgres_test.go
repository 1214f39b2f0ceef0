package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewStatisticsPostgres(db)
	ctx := context.Background()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM profiles").
		WithArgs(nil, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM payments").
		WithArgs(nil, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(320.5))
	mock.ExpectQuery("SELECT COALESCE\\(NULLIF").
		WithArgs(nil).
		WillReturnRows(sqlmock.NewRows([]string{"method", "count"}).AddRow("cash", 2).AddRow("other", 1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents").
		WithArgs(nil, from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := repo.CountProfiles(ctx, "", from, to)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	rev, err := repo.Revenue(ctx, "", from, to)
	require.NoError(t, err)
	assert.Equal(t, 320.5, rev)

	methods, err := repo.PaymentMethods(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, methods["other"])

	expired, err := repo.CountExpiredUnmarked(ctx, "", from)
	require.NoError(t, err)
	assert.Equal(t, 5, expired)

	assert.NoError(t, mock.ExpectationsWereMet())
}
