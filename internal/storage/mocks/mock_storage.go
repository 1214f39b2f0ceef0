package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"gymapi/internal/storage"
)

// MockStorage is a testify mock of storage.Storage. Put also accepts a
// func returning ObjectInfo so tests can echo the generated key.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	switch v := args.Get(0).(type) {
	case func(context.Context, string, io.Reader, storage.PutObjectOptions) storage.ObjectInfo:
		return v(ctx, key, r, opt), args.Error(1)
	case storage.ObjectInfo:
		return v, args.Error(1)
	}
	return storage.ObjectInfo{}, args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	info, _ := args.Get(1).(storage.ObjectInfo)
	return rc, info, args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) PresignGet(ctx context.Context, key, downloadName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, downloadName, expiry)
	return args.String(0), args.Error(1)
}
