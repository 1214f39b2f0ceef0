package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gymapi/internal/model"
)

type MockExerciseRepository struct {
	mock.Mock
}

func (m *MockExerciseRepository) exercise(args mock.Arguments) (*model.Exercise, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) Create(ctx context.Context, e *model.Exercise) (*model.Exercise, error) {
	return m.exercise(m.Called(ctx, e))
}

func (m *MockExerciseRepository) FindByID(ctx context.Context, id string) (*model.Exercise, error) {
	return m.exercise(m.Called(ctx, id))
}

func (m *MockExerciseRepository) List(ctx context.Context, orgID string) ([]model.Exercise, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) Update(ctx context.Context, id string, patch model.ExercisePatch) (*model.Exercise, error) {
	return m.exercise(m.Called(ctx, id, patch))
}

func (m *MockExerciseRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExerciseRepository) UsageCount(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) settings(args mock.Arguments) (*model.UserSettings, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSettings), args.Error(1)
}

func (m *MockSettingsRepository) GetOrCreate(ctx context.Context, userID string) (*model.UserSettings, error) {
	return m.settings(m.Called(ctx, userID))
}

func (m *MockSettingsRepository) UpdateSection(ctx context.Context, userID, section string, value any) (*model.UserSettings, error) {
	return m.settings(m.Called(ctx, userID, section, value))
}

func (m *MockSettingsRepository) UpdateTwoFactor(ctx context.Context, userID string, tf model.TwoFactorSettings) (*model.UserSettings, error) {
	return m.settings(m.Called(ctx, userID, tf))
}
