package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

// ReprocessDocumentUseCase republishes upload events for documents that never
// reached a result: failed runs and uploads whose first publish was lost.
type ReprocessDocumentUseCase struct {
	repo   ports.DocumentRepository
	queue  ports.MessageQueue
	logger *slog.Logger
}

func NewReprocessDocumentUseCase(repo ports.DocumentRepository, queue ports.MessageQueue, logger *slog.Logger) *ReprocessDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReprocessDocumentUseCase{repo: repo, queue: queue, logger: logger}
}

// Reprocess requeues one document. Only uploaded and failed documents are
// accepted; processed or in-flight ones yield ErrConflict.
func (uc *ReprocessDocumentUseCase) Reprocess(ctx context.Context, documentID string) (*domain.Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "reprocess document", errors.New("document id is required"))
	}
	if err := uc.repo.RequeueForProcessing(ctx, documentID); err != nil {
		return nil, fmt.Errorf("requeue document: %w", err)
	}
	if err := uc.queue.PublishDocumentUploaded(ctx, documentID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch requeued document: %w", err)
	}
	uc.logger.Info("document_requeued", "document_id", documentID)
	return doc, nil
}

// RequeueFailed republishes up to limit failed documents, oldest first, and
// returns how many were published. Documents claimed concurrently are
// skipped; other per-document errors are joined into the returned error.
func (uc *ReprocessDocumentUseCase) RequeueFailed(ctx context.Context, limit int) (int, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	docs, err := uc.repo.ListByStatus(ctx, domain.StatusFailed, limit)
	if err != nil {
		return 0, fmt.Errorf("list failed documents: %w", err)
	}

	requeued := 0
	var errs []error
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return requeued, err
		}
		if err := uc.repo.RequeueForProcessing(ctx, doc.ID); err != nil {
			if domain.IsKind(err, domain.ErrConflict) {
				continue
			}
			errs = append(errs, fmt.Errorf("requeue %s: %w", doc.ID, err))
			continue
		}
		if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", doc.ID, err))
			continue
		}
		requeued++
	}

	uc.logger.Info("failed_documents_requeued",
		"candidates", len(docs),
		"requeued", requeued,
		"errors", len(errs),
	)
	return requeued, errors.Join(errs...)
}
