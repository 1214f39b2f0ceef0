package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymapi/internal/auth"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/realtime"
	"gymapi/internal/repository"
	"gymapi/internal/storage"
)

// ExpiringWindow is how far ahead a document counts as expiring.
const ExpiringWindow = 30 * 24 * time.Hour

// DocumentCategories lists accepted document kinds.
var DocumentCategories = []string{"medical", "identity", "contract", "privacy", "other"}

// UploadInput describes one athlete document upload. Filename is used only
// for its extension; the stored object is named by a fresh UUID.
type UploadInput struct {
	AthleteID   string
	Category    string
	Filename    string
	ContentType string
	Size        int64
	ExpiresAt   *time.Time
	Notes       *string
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// RefreshResult reports how many documents changed status.
type RefreshResult struct {
	Expired  int64 `json:"expired"`
	Expiring int64 `json:"expiring"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload streams the content to object storage, saves metadata to DB, and rolls back storage if DB save fails.
	Upload(ctx context.Context, actor auth.Principal, in UploadInput, r io.Reader) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, actor auth.Principal, f model.DocumentFilter, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document with a presigned download URL.
	Get(ctx context.Context, actor auth.Principal, id string) (*model.Document, error)

	// Open streams a document's content. The caller closes the reader.
	Open(ctx context.Context, actor auth.Principal, id string) (io.ReadCloser, *model.Document, error)

	// Delete removes a document by ID from both storage and repository.
	Delete(ctx context.Context, actor auth.Principal, id string) error

	MarkInvalid(ctx context.Context, actor auth.Principal, id, reason string) (*model.Document, error)

	// RefreshStatuses flags expired and soon-to-expire documents.
	RefreshStatuses(ctx context.Context, now time.Time) (*RefreshResult, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store         storage.Storage
	repo          repository.DocumentRepository
	access        athleteAccess
	events        realtime.Publisher
	presignExpiry time.Duration
	log           *logger.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, profiles repository.ProfileRepository, events realtime.Publisher, presignExpiry time.Duration, log *logger.Logger) DocumentService {
	if log == nil {
		log = logger.Nop()
	}
	if presignExpiry <= 0 {
		presignExpiry = time.Hour
	}
	return &documentService{
		store:         store,
		repo:          repo,
		access:        athleteAccess{profiles: profiles},
		events:        events,
		presignExpiry: presignExpiry,
		log:           log.Component("documents"),
	}
}

func (s *documentService) Upload(ctx context.Context, actor auth.Principal, in UploadInput, r io.Reader) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = "other"
	}
	if !contains(DocumentCategories, category) {
		return nil, invalid("category %q is not valid", category)
	}
	athlete, err := s.access.check(ctx, actor, in.AthleteID)
	if err != nil {
		return nil, err
	}

	key := storage.DocumentKey(athlete.ID, in.Filename)
	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata:    storage.DocumentMetadata(athlete.ID, in.Filename),
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	status := model.DocumentValid
	if in.ExpiresAt != nil {
		switch {
		case !in.ExpiresAt.After(now):
			status = model.DocumentExpired
		case in.ExpiresAt.Before(now.Add(ExpiringWindow)):
			status = model.DocumentExpiring
		}
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		OrgID:       athlete.OrgID,
		AthleteID:   athlete.ID,
		Category:    category,
		FileName:    filepath.Base(in.Filename),
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		Status:      status,
		ExpiresAt:   in.ExpiresAt,
		Notes:       in.Notes,
		UploadedBy:  optional(actor.ProfileID),
		CreatedAt:   now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Error("document_rollback_failed", delErr, logger.Fields{"key": key})
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	s.publish(stored, realtime.Insert)
	return stored, nil
}

// List returns paginated documents. Non-admins are restricted to one athlete
// they may access, defaulting to themselves.
func (s *documentService) List(ctx context.Context, actor auth.Principal, f model.DocumentFilter, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	limit = clamp(limit, 1, maxPageLimit)
	if offset < 0 {
		offset = 0
	}

	f.OrgID = actor.OrgID
	if !actor.IsAdmin() {
		if f.AthleteID == "" {
			f.AthleteID = actor.ProfileID
		}
		if _, err := s.access.check(ctx, actor, f.AthleteID); err != nil {
			return nil, err
		}
	}

	res, err := s.repo.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) find(ctx context.Context, actor auth.Principal, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("document", err)
	}
	if _, err := s.access.check(ctx, actor, doc.AthleteID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, actor auth.Principal, id string) (*model.Document, error) {
	doc, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, doc.StoragePath, doc.FileName, s.presignExpiry)
	if err != nil {
		s.log.Warn("document_presign_failed", logger.Fields{"document_id": id, "error_message": err.Error()})
	} else {
		doc.DownloadURL = url
	}
	return doc, nil
}

func (s *documentService) Open(ctx context.Context, actor auth.Principal, id string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Warn("document_object_missing", logger.Fields{"document_id": id, "key": doc.StoragePath})
		return nil, nil, fmt.Errorf("document file %w", ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read storage: %w", err)
	}
	return rc, doc, nil
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	doc, err := s.find(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.IsStaff() && doc.AthleteID != actor.ProfileID {
		return ErrForbidden
	}
	// Storage first; the row survives a storage failure so the object is not lost track of.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(doc, realtime.Delete)
	return nil
}

func (s *documentService) MarkInvalid(ctx context.Context, actor auth.Principal, id, reason string) (*model.Document, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	doc, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	var notes *string
	if reason = strings.TrimSpace(reason); reason != "" {
		notes = &reason
	}
	if err := s.repo.UpdateStatus(ctx, id, model.DocumentInvalid, notes); err != nil {
		return nil, notFound("document", err)
	}
	doc.Status = model.DocumentInvalid
	if notes != nil {
		doc.Notes = notes
	}
	s.publish(doc, realtime.Update)
	return doc, nil
}

func (s *documentService) RefreshStatuses(ctx context.Context, now time.Time) (*RefreshResult, error) {
	expired, expiring, err := s.repo.RefreshStatuses(ctx, now, ExpiringWindow)
	if err != nil {
		return nil, fmt.Errorf("refresh document statuses: %w", err)
	}
	s.log.Info("document_statuses_refreshed", logger.Fields{"expired": expired, "expiring": expiring})
	if expired+expiring > 0 && s.events != nil {
		s.events.Publish(realtime.Event{Table: "documents", Type: realtime.Update})
	}
	return &RefreshResult{Expired: expired, Expiring: expiring}, nil
}

func (s *documentService) publish(doc *model.Document, typ string) {
	if s.events == nil {
		return
	}
	ev := realtime.Event{Table: "documents", Type: typ, RecordID: doc.ID}
	if doc.OrgID != nil {
		ev.OrgID = *doc.OrgID
	}
	s.events.Publish(ev)
}
