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
)

func TestAppointmentPostgres_HasOverlap(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAppointmentPostgres(db)
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery("SELECT check_appointment_overlap").
		WithArgs("staff-1", start, end, nil).
		WillReturnRows(sqlmock.NewRows([]string{"has_overlap"}).AddRow(true))
	mock.ExpectQuery("SELECT check_appointment_overlap").
		WithArgs("staff-1", start, end, "appt-1").
		WillReturnError(errors.New("function missing"))

	overlap, err := repo.HasOverlap(context.Background(), "staff-1", start, end, "")
	require.NoError(t, err)
	assert.True(t, overlap)

	_, err = repo.HasOverlap(context.Background(), "staff-1", start, end, "appt-1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentPostgres_ListAndCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAppointmentPostgres(db)
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	cols := []string{"id", "org_id", "athlete_id", "staff_id", "starts_at", "ends_at", "type", "status", "location", "notes", "cancelled_at", "created_by", "created_at", "updated_at"}

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs("org-1", nil, "staff-1", start, nil).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("appt-1", "org-1", "a1", "staff-1", start, start.Add(time.Hour), "training", "scheduled", nil, nil, nil, nil, start, start))
	mock.ExpectExec("UPDATE appointments SET status = 'cancelled'").
		WithArgs("appt-1", start).
		WillReturnResult(sqlmock.NewResult(0, 1))

	items, err := repo.List(context.Background(), model.AppointmentFilter{OrgID: "org-1", StaffID: "staff-1", From: &start})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "training", items[0].Type)

	require.NoError(t, repo.Cancel(context.Background(), "appt-1", start))
	assert.NoError(t, mock.ExpectationsWereMet())
}
