package repository

import (
	"context"
	"time"

	"gymapi/internal/model"
)

// DocumentRepository defines data access for athlete documents.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a filtered page of documents and the total matching rows.
	List(ctx context.Context, f model.DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// UpdateStatus sets status and, when notes is non-nil, notes.
	UpdateStatus(ctx context.Context, id, status string, notes *string) error

	// RefreshStatuses marks documents past expiry as expired and those expiring
	// within window as expiring. Rows under review or invalid are left alone.
	RefreshStatuses(ctx context.Context, now time.Time, window time.Duration) (expired, expiring int64, err error)
}
