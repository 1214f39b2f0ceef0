package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gymapi/internal/model"
	"gymapi/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, f model.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, id, status string, notes *string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}

func (m *MockDocumentRepository) RefreshStatuses(ctx context.Context, now time.Time, window time.Duration) (int64, int64, error) {
	args := m.Called(ctx, now, window)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}
