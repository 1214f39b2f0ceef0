// Package storage keeps athlete documents in S3-compatible object storage.
// Content is streamed; nothing is buffered on local disk.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// DocumentKey returns a fresh key documents/<athleteID>/<uuid><ext> for an
// upload called filename. The extension is lower-cased.
func DocumentKey(athleteID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("documents", athleteID, uuid.New().String()+ext)
}

// DocumentMetadata is the user metadata stored next to a document object.
func DocumentMetadata(athleteID, filename string) map[string]string {
	return map[string]string{
		"original-filename": filename,
		"athlete-id":        athleteID,
	}
}

// PutObjectOptions describe an upload. A Size <= 0 means unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the document object store.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams an object. Missing keys yield ErrObjectNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL. When downloadName is
	// set the browser saves the file under that name.
	PresignGet(ctx context.Context, key, downloadName string, expiry time.Duration) (string, error)
}
