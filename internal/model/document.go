package model

import "time"

// Document status values.
const (
	DocumentValid       = "valid"
	DocumentExpiring    = "expiring"
	DocumentExpired     = "expired"
	DocumentUnderReview = "under_review"
	DocumentInvalid     = "invalid"
)

// Document is an athlete file kept in object storage.
type Document struct {
	ID          string     `json:"id"`
	OrgID       *string    `json:"org_id,omitempty"`
	AthleteID   string     `json:"athlete_id"`
	Category    string     `json:"category"`
	FileName    string     `json:"file_name"`
	StoragePath string     `json:"storage_path"`
	Size        int64      `json:"size"`
	ContentType string     `json:"content_type"`
	Status      string     `json:"status"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	UploadedBy  *string    `json:"uploaded_by,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DocumentFilter narrows document listings. Search matches file name and notes.
type DocumentFilter struct {
	OrgID     string
	AthleteID string
	Status    string
	Category  string
	Search    string
}
