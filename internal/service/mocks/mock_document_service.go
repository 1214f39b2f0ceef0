package mocks

import (
	"context"
	"io"
	"time"

	"gymapi/internal/auth"
	"gymapi/internal/model"
	"gymapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) document(args mock.Arguments) (*model.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, actor auth.Principal, in service.UploadInput, r io.Reader) (*model.Document, error) {
	return m.document(m.Called(ctx, actor, in, r))
}

func (m *MockDocumentService) List(ctx context.Context, actor auth.Principal, f model.DocumentFilter, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, actor, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, actor auth.Principal, id string) (*model.Document, error) {
	return m.document(m.Called(ctx, actor, id))
}

func (m *MockDocumentService) Open(ctx context.Context, actor auth.Principal, id string) (io.ReadCloser, *model.Document, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Document), args.Error(2)
}

func (m *MockDocumentService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockDocumentService) MarkInvalid(ctx context.Context, actor auth.Principal, id, reason string) (*model.Document, error) {
	return m.document(m.Called(ctx, actor, id, reason))
}

func (m *MockDocumentService) RefreshStatuses(ctx context.Context, now time.Time) (*service.RefreshResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RefreshResult), args.Error(1)
}
