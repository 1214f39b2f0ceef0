package mocks

import (
	"context"
	"encoding/json"

	"gymapi/internal/auth"
	"gymapi/internal/model"
	"gymapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockExerciseService struct {
	mock.Mock
}

func (m *MockExerciseService) exercise(args mock.Arguments) (*model.Exercise, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Exercise), args.Error(1)
}

func (m *MockExerciseService) List(ctx context.Context, actor auth.Principal) ([]model.Exercise, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Exercise), args.Error(1)
}

func (m *MockExerciseService) Create(ctx context.Context, actor auth.Principal, in service.ExerciseInput) (*model.Exercise, error) {
	return m.exercise(m.Called(ctx, actor, in))
}

func (m *MockExerciseService) Update(ctx context.Context, actor auth.Principal, id string, patch model.ExercisePatch) (*model.Exercise, error) {
	return m.exercise(m.Called(ctx, actor, id, patch))
}

func (m *MockExerciseService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) settings(args mock.Arguments) (*model.UserSettings, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSettings), args.Error(1)
}

func (m *MockSettingsService) Get(ctx context.Context, actor auth.Principal) (*model.UserSettings, error) {
	return m.settings(m.Called(ctx, actor))
}

func (m *MockSettingsService) Update(ctx context.Context, actor auth.Principal, section string, data json.RawMessage) (*model.UserSettings, error) {
	return m.settings(m.Called(ctx, actor, section, data))
}
