package ports

import (
	"context"
	"io"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

// DocumentRepository persists upload records and processed results.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveResult(ctx context.Context, id string, result domain.ClassificationResult) error
	ListByDepartment(ctx context.Context, dept domain.Department, limit int) ([]domain.Document, error)
	CountByDepartment(ctx context.Context) (map[domain.Department]int, error)
	ListByStatus(ctx context.Context, status domain.DocumentStatus, limit int) ([]domain.Document, error)
	// RequeueForProcessing moves an uploaded or failed document back to
	// uploaded; other statuses yield ErrConflict.
	RequeueForProcessing(ctx context.Context, id string) error
}

// ObjectStorage stores source documents and their archived copies.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context) ([]string, error)
	Copy(ctx context.Context, srcKey, dstKey string) error
}

// MessageQueue publishes/consumes upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor turns a stored file into plain text. An error means the file
// could not be read at all; unreadable content yields placeholder text.
type TextExtractor interface {
	Extract(ctx context.Context, file domain.SourceFile) (string, error)
}

// CompletionRequest is one call to a text-generation service.
type CompletionRequest struct {
	Prompt    string
	System    string
	MaxTokens int
}

// CompletionClient generates text for a prompt. Any failure is reported as an
// error; callers never rely on partial output.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// DocumentAnalyzer runs the classification engine over extracted text.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, text string) domain.Analysis
}

// ResultAssembler packages an analysis into an immutable result.
type ResultAssembler interface {
	Assemble(file domain.SourceFile, text string, analysis domain.Analysis) domain.ClassificationResult
}
