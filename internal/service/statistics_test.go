package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	repoMocks "gymapi/internal/repository/mocks"
)

func TestStatisticsService_Get(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	var epoch time.Time

	repo := new(repoMocks.MockStatisticsRepository)
	profiles := new(repoMocks.MockProfileRepository)
	svc := NewStatisticsService(repo, profiles, nil)

	repo.On("CountProfiles", mock.Anything, "", march, april).Return(12, nil)
	repo.On("CountProfiles", mock.Anything, "", feb, march).Return(8, nil)
	repo.On("CountProfiles", mock.Anything, "", epoch, mock.Anything).Return(40, nil)
	repo.On("Revenue", mock.Anything, "", march, april).Return(1500.0, nil)
	repo.On("Revenue", mock.Anything, "", feb, march).Return(1000.0, nil)
	repo.On("Revenue", mock.Anything, "", mock.Anything, mock.Anything).Return(250.0, nil)
	repo.On("PaymentMethods", mock.Anything, "").Return(map[string]int{"Cash": 3}, nil)
	repo.On("CountAppointments", mock.Anything, "", march, april).Return(7, nil)
	repo.On("AppointmentsByStatus", mock.Anything, "").Return(map[string]int{"scheduled": 5, "cancelled": 2}, nil)
	repo.On("DocumentsByStatus", mock.Anything, "").Return(map[string]int{"valid": 4, "expired": 1}, nil)
	repo.On("CountExpiredUnmarked", mock.Anything, "", now).Return(2, nil)
	profiles.On("CountByRole", mock.Anything, "").Return(map[string]int{"athlete": 30, "pt": 10}, nil)

	st, err := svc.Get(ctx, adminActor, now)
	require.NoError(t, err)

	assert.Equal(t, 40, st.Users.Total)
	assert.Equal(t, 12, st.Users.ThisMonth)
	assert.Equal(t, 50.0, st.Users.Growth)
	assert.Equal(t, 30, st.Users.ByRole["athlete"])
	assert.Equal(t, 1500.0, st.Payments.ThisMonth)
	assert.Equal(t, 50.0, st.Payments.Growth)
	assert.Equal(t, 7, st.Appointments.Total)
	assert.Equal(t, 5, st.Documents.Total)
	assert.Equal(t, 2, st.Documents.Expired)

	require.Len(t, st.Users.ByMonth, 6)
	assert.Equal(t, "2025-10", st.Users.ByMonth[0].Month)
	assert.Equal(t, "2026-03", st.Users.ByMonth[5].Month)
	assert.Equal(t, "2026-03", st.Payments.ByMonth[5].Month)
	assert.Equal(t, 1500.0, st.Payments.ByMonth[5].Revenue)
}

func TestStatisticsService_Errors(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockStatisticsRepository)
	profiles := new(repoMocks.MockProfileRepository)
	svc := NewStatisticsService(repo, profiles, nil)

	_, err := svc.Get(ctx, trainerActor, time.Now())
	assert.ErrorIs(t, err, ErrForbidden)

	boom := errors.New("db down")
	repo.On("CountProfiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, boom)
	repo.On("Revenue", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0.0, nil)
	repo.On("PaymentMethods", mock.Anything, mock.Anything).Return(map[string]int{}, nil)
	repo.On("CountAppointments", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
	repo.On("AppointmentsByStatus", mock.Anything, mock.Anything).Return(map[string]int{}, nil)
	repo.On("DocumentsByStatus", mock.Anything, mock.Anything).Return(map[string]int{}, nil)
	repo.On("CountExpiredUnmarked", mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
	profiles.On("CountByRole", mock.Anything, mock.Anything).Return(map[string]int{}, nil)

	_, err = svc.Get(ctx, adminActor, time.Now())
	assert.ErrorIs(t, err, boom)
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 0.0, growth(10, 0))
	assert.Equal(t, -25.0, growth(75, 100))
	assert.Equal(t, 33.33, growth(4, 3))
}
