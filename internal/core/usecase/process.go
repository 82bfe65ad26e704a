package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

// failStatusTimeout bounds the failed-status write, which runs detached from
// the processing context so a cancelled run still records its outcome.
const failStatusTimeout = 10 * time.Second

type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	analyzer  ports.DocumentAnalyzer
	assembler ports.ResultAssembler
	observer  ResultObserver
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	analyzer ports.DocumentAnalyzer,
	assembler ports.ResultAssembler,
	observer ResultObserver,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		analyzer:  analyzer,
		assembler: assembler,
		observer:  observer,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusPendingProcessing, ""); err != nil {
		return fmt.Errorf("set status=pending_processing: %w", err)
	}

	result, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveResult(ctx, documentID, result); err != nil {
		err = fmt.Errorf("save result: %w", err)
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if uc.observer != nil {
		uc.observer.ObserveResult(result)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (domain.ClassificationResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("fetch document by id: %w", err)
	}

	file := doc.Source()
	text, err := uc.extractor.Extract(ctx, file)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("extract text: %w", err)
	}

	analysis := uc.analyzer.Analyze(ctx, text)
	result := uc.assembler.Assemble(file, text, analysis)

	if _, err := ArchiveResult(ctx, uc.storage, result); err != nil {
		return domain.ClassificationResult{}, err
	}
	return result, nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	statusCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failStatusTimeout)
	defer cancel()
	return uc.markStatus(statusCtx, documentID, domain.StatusFailed, processErr.Error())
}
