package mocks

import (
	"context"

	"gymapi/internal/auth"
	"gymapi/internal/cascade"
	"gymapi/internal/model"
	"gymapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) VerifyLogin(ctx context.Context, email, password string) (*service.VerifyLoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VerifyLoginResult), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(auth.Principal), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, actor auth.Principal) (*model.Profile, error) {
	return profileResult(m.Called(ctx, actor))
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, actor auth.Principal, page, limit int) (*service.UserListResult, error) {
	args := m.Called(ctx, actor, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserListResult), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, actor auth.Principal, in service.AccountInput) (*model.Profile, error) {
	return profileResult(m.Called(ctx, actor, in))
}

func (m *MockUserService) Update(ctx context.Context, actor auth.Principal, id string, in service.UpdateUserInput) (*model.Profile, error) {
	return profileResult(m.Called(ctx, actor, id, in))
}

func (m *MockUserService) Delete(ctx context.Context, actor auth.Principal, id string) (*service.DeleteUserResult, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeleteUserResult), args.Error(1)
}

func (m *MockUserService) ResetPassword(ctx context.Context, actor auth.Principal, id, password string) error {
	return m.Called(ctx, actor, id, password).Error(0)
}

func (m *MockUserService) Import(ctx context.Context, actor auth.Principal, rows []service.ImportUserInput) (*service.ImportResult, error) {
	args := m.Called(ctx, actor, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

type MockAthleteService struct {
	mock.Mock
}

func (m *MockAthleteService) Create(ctx context.Context, actor auth.Principal, in service.AthleteInput) (*model.Profile, error) {
	return profileResult(m.Called(ctx, actor, in))
}

func (m *MockAthleteService) Update(ctx context.Context, actor auth.Principal, id string, in service.AthleteInput) (*model.Profile, error) {
	return profileResult(m.Called(ctx, actor, id, in))
}

func (m *MockAthleteService) Get(ctx context.Context, actor auth.Principal, id string) (*model.Profile, error) {
	return profileResult(m.Called(ctx, actor, id))
}

func (m *MockAthleteService) List(ctx context.Context, actor auth.Principal) ([]model.Profile, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *MockAthleteService) Delete(ctx context.Context, actor auth.Principal, id string) (*cascade.Result, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cascade.Result), args.Error(1)
}

type MockRoleService struct {
	mock.Mock
}

func (m *MockRoleService) List(ctx context.Context, actor auth.Principal) ([]model.RoleDefinition, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RoleDefinition), args.Error(1)
}

func (m *MockRoleService) Update(ctx context.Context, actor auth.Principal, id string, description *string, permissions map[string]bool) (*model.RoleDefinition, error) {
	args := m.Called(ctx, actor, id, description, permissions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleDefinition), args.Error(1)
}

func profileResult(args mock.Arguments) (*model.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}
