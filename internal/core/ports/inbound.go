package ports

import (
	"context"
	"io"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document records.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByDepartment(ctx context.Context, dept string, limit int) ([]domain.Document, error)
	DepartmentCounts(ctx context.Context) (map[domain.Department]int, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReprocessor puts uploaded or failed documents back on the queue.
type DocumentReprocessor interface {
	Reprocess(ctx context.Context, documentID string) (*domain.Document, error)
	RequeueFailed(ctx context.Context, limit int) (int, error)
}

// BatchRouter processes a set of stored files and groups them by department.
type BatchRouter interface {
	Run(ctx context.Context, files []domain.SourceFile) (*domain.BatchOutcome, error)
}
