package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymapi/internal/model"
)

var progressCols = []string{"id", "athlete_id", "date", "weight_kg", "max_bench_kg", "max_squat_kg", "max_deadlift_kg", "fat_pct", "fat_kg", "lean_kg", "muscle_kg", "skeletal_muscle_kg", "circumferences", "notes", "created_at"}

func TestProgressPostgres_ListLogs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM progress_logs (.+) ORDER BY date DESC, created_at DESC").
		WithArgs("a1", 100).
		WillReturnRows(sqlmock.NewRows(progressCols).
			AddRow("l1", "a1", day, 80.5, 100.0, nil, nil, nil, nil, 60.0, nil, nil, []byte(`{"waist":82}`), nil, day))

	logs, err := NewProgressPostgres(db).ListLogs(context.Background(), "a1", 100)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].WeightKg)
	assert.Equal(t, 80.5, *logs[0].WeightKg)
	assert.Nil(t, logs[0].MaxSquatKg)
	assert.Equal(t, 82.0, logs[0].Circumferences["waist"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressPostgres_CreateLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	w := 80.0
	l := &model.ProgressLog{ID: "l1", AthleteID: "a1", Date: day, WeightKg: &w}

	mock.ExpectQuery("INSERT INTO progress_logs").
		WithArgs("l1", "a1", day, 80.0, nil, nil, nil, nil, nil, nil, nil, nil, "{}", nil).
		WillReturnRows(sqlmock.NewRows(progressCols).
			AddRow("l1", "a1", day, 80.0, nil, nil, nil, nil, nil, nil, nil, nil, []byte(`{}`), nil, day))

	got, err := NewProgressPostgres(db).CreateLog(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, "l1", got.ID)
	assert.NotNil(t, got.Circumferences)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressPostgres_Plans(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProgressPostgres(db)
	now := time.Now()
	since := now.AddDate(0, 0, -30)
	cols := []string{"id", "athlete_id", "trainer_id", "name", "description", "is_active", "completed_at", "created_at"}

	mock.ExpectQuery("UPDATE workout_plans SET is_active = false").
		WithArgs("w1", now).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("w1", "a1", nil, "Push", nil, false, now, now))
	mock.ExpectQuery("SELECT (.+) FROM workout_plans").
		WithArgs("a1", since, 50).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("w1", "a1", nil, "Push", nil, false, now, now))

	plan, err := repo.CompletePlan(context.Background(), "w1", now)
	require.NoError(t, err)
	assert.False(t, plan.IsActive)

	plans, err := repo.ListPlansSince(context.Background(), "a1", since, 50)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
