package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type DocumentStatus string

const (
	StatusUploaded          DocumentStatus = "uploaded"
	StatusPendingProcessing DocumentStatus = "pending_processing"
	StatusProcessed         DocumentStatus = "processed"
	StatusFailed            DocumentStatus = "failed"
)

// SourceFile identifies a stored file handed to the pipeline.
type SourceFile struct {
	Key              string `json:"key"`
	OriginalFilename string `json:"original_filename"`
}

// Extension returns the lower-cased extension without the leading dot.
// The original filename wins over the storage key when both carry one.
func (f SourceFile) Extension() string {
	ext := filepath.Ext(f.OriginalFilename)
	if ext == "" {
		ext = filepath.Ext(f.Key)
	}
	return strings.TrimPrefix(strings.ToLower(ext), ".")
}

// Document is the persisted record of an uploaded file and, once processed,
// of its classification result.
type Document struct {
	ID               string         `json:"id"`
	OriginalFilename string         `json:"original_filename"`
	MimeType         string         `json:"mime_type"`
	StorageKey       string         `json:"storage_key"`
	Status           DocumentStatus `json:"status"`
	Error            string         `json:"error,omitempty"`

	ProcessedFilename string         `json:"processed_filename,omitempty"`
	DocumentType      DocumentType   `json:"document_type,omitempty"`
	Department        Department     `json:"department,omitempty"`
	Summary           string         `json:"summary,omitempty"`
	KeyPoints         []string       `json:"key_points"`
	ActionItems       []string       `json:"action_items"`
	Deadline          *string        `json:"deadline,omitempty"`
	Priority          Priority       `json:"priority,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func (d *Document) Source() SourceFile {
	return SourceFile{Key: d.StorageKey, OriginalFilename: d.OriginalFilename}
}
