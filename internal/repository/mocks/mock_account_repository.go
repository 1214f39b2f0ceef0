package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gymapi/internal/model"
	"gymapi/internal/repository"
)

type MockAuthUserRepository struct {
	mock.Mock
}

func (m *MockAuthUserRepository) Create(ctx context.Context, email, passwordHash string) (*model.AuthUser, error) {
	args := m.Called(ctx, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthUser), args.Error(1)
}

func (m *MockAuthUserRepository) FindByID(ctx context.Context, id string) (*model.AuthUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthUser), args.Error(1)
}

func (m *MockAuthUserRepository) FindByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthUser), args.Error(1)
}

func (m *MockAuthUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockAuthUserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	return m.Called(ctx, id, email).Error(0)
}

func (m *MockAuthUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) profile(args mock.Arguments) (*model.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	return m.profile(m.Called(ctx, p))
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	return m.profile(m.Called(ctx, id))
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return m.profile(m.Called(ctx, userID))
}

func (m *MockProfileRepository) List(ctx context.Context, orgID, role string, pq repository.PageQuery) (*repository.PageResult[model.Profile], error) {
	args := m.Called(ctx, orgID, role, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Profile]), args.Error(1)
}

func (m *MockProfileRepository) ListByTrainer(ctx context.Context, trainerID string) ([]model.Profile, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error) {
	return m.profile(m.Called(ctx, id, patch))
}

func (m *MockProfileRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProfileRepository) FindStaffByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return m.profile(m.Called(ctx, email))
}

func (m *MockProfileRepository) FindStaffByName(ctx context.Context, firstName, lastName string) (*model.Profile, error) {
	return m.profile(m.Called(ctx, firstName, lastName))
}

func (m *MockProfileRepository) AssignedTrainers(ctx context.Context, athleteIDs []string) (map[string]model.Profile, error) {
	args := m.Called(ctx, athleteIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.Profile), args.Error(1)
}

func (m *MockProfileRepository) LinkTrainer(ctx context.Context, trainerID, athleteID string) error {
	return m.Called(ctx, trainerID, athleteID).Error(0)
}

func (m *MockProfileRepository) IsTrainerOf(ctx context.Context, trainerID, athleteID string) (bool, error) {
	args := m.Called(ctx, trainerID, athleteID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) CountByRole(ctx context.Context, orgID string) (map[string]int, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) List(ctx context.Context) ([]model.RoleDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RoleDefinition), args.Error(1)
}

func (m *MockRoleRepository) Update(ctx context.Context, id string, description *string, permissions map[string]bool) (*model.RoleDefinition, error) {
	args := m.Called(ctx, id, description, permissions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleDefinition), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, ev model.AuditEvent) error {
	return m.Called(ctx, ev).Error(0)
}
