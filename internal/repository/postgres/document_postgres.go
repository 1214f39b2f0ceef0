package postgres

import (
	"context"
	"time"

	"gymapi/internal/database"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db database.DBTX
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db database.DBTX) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, org_id, athlete_id, category, file_name, storage_path, size, content_type, status, expires_at, notes, uploaded_by, created_at, updated_at`

func scanDocument(s scanner) (*model.Document, error) {
	var d model.Document
	if err := s.Scan(
		&d.ID,
		&d.OrgID,
		&d.AthleteID,
		&d.Category,
		&d.FileName,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.Status,
		&d.ExpiresAt,
		&d.Notes,
		&d.UploadedBy,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, org_id, athlete_id, category, file_name, storage_path, size, content_type, status, expires_at, notes, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.OrgID,
		doc.AthleteID,
		doc.Category,
		doc.FileName,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.Status,
		doc.ExpiresAt,
		doc.Notes,
		doc.UploadedBy,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, f model.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const where = `
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		  AND ($2::uuid IS NULL OR athlete_id = $2::uuid)
		  AND ($3::text IS NULL OR status = $3::text)
		  AND ($4::text IS NULL OR category = $4::text)
		  AND ($5::text IS NULL OR file_name ILIKE '%' || $5::text || '%' OR notes ILIKE '%' || $5::text || '%')
	`
	args := []any{nullable(f.OrgID), nullable(f.AthleteID), nullable(f.Status), nullable(f.Category), nullable(f.Search)}

	// Count total rows
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `SELECT ` + documentColumns + ` FROM documents` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $6 OFFSET $7
	`
	rows, err := r.db.QueryContext(ctx, qList, append(args, limitArg(pq.Limit), pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// UpdateStatus sets the status and optionally replaces notes.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, id, status string, notes *string) error {
	const q = `UPDATE documents SET status = $2, notes = COALESCE($3, notes), updated_at = now() WHERE id = $1`
	return execOne(ctx, r.db, q, id, status, notes)
}

// RefreshStatuses moves documents into expired or expiring based on expires_at.
func (r *DocumentPostgres) RefreshStatuses(ctx context.Context, now time.Time, window time.Duration) (int64, int64, error) {
	today := now.Truncate(24 * time.Hour)

	const qExpired = `
		UPDATE documents SET status = 'expired', updated_at = now()
		WHERE expires_at IS NOT NULL AND expires_at < $1
		  AND status IN ('valid', 'expiring')
	`
	res, err := r.db.ExecContext(ctx, qExpired, today)
	if err != nil {
		return 0, 0, err
	}
	expired, err := res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	const qExpiring = `
		UPDATE documents SET status = 'expiring', updated_at = now()
		WHERE expires_at IS NOT NULL AND expires_at >= $1 AND expires_at <= $2
		  AND status = 'valid'
	`
	res, err = r.db.ExecContext(ctx, qExpiring, today, today.Add(window))
	if err != nil {
		return expired, 0, err
	}
	expiring, err := res.RowsAffected()
	if err != nil {
		return expired, 0, err
	}
	return expired, expiring, nil
}
