package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

// ResultObserver is told about every result a pipeline produces.
type ResultObserver interface {
	ObserveResult(result domain.ClassificationResult)
}

type BatchCoordinator struct {
	extractor ports.TextExtractor
	analyzer  ports.DocumentAnalyzer
	assembler ports.ResultAssembler
	workers   int
	logger    *slog.Logger
	observer  ResultObserver
}

type BatchOptions struct {
	// Workers bounds how many files are processed at once; values below 1 mean 1.
	Workers  int
	Logger   *slog.Logger
	Observer ResultObserver
}

func NewBatchCoordinator(
	extractor ports.TextExtractor,
	analyzer ports.DocumentAnalyzer,
	assembler ports.ResultAssembler,
	opts BatchOptions,
) *BatchCoordinator {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchCoordinator{
		extractor: extractor,
		analyzer:  analyzer,
		assembler: assembler,
		workers:   workers,
		logger:    logger,
		observer:  opts.Observer,
	}
}

type batchItem struct {
	result domain.ClassificationResult
	err    error
}

// Run processes every file independently and groups the results by
// department. Item failures are recorded in the outcome; only context
// cancellation fails the whole batch, in which case partial results are
// discarded.
func (c *BatchCoordinator) Run(ctx context.Context, files []domain.SourceFile) (*domain.BatchOutcome, error) {
	started := time.Now()
	items := make([]batchItem, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := c.processOne(gctx, file)
			items[i] = batchItem{result: result, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := domain.NewBatchOutcome()
	for i, item := range items {
		if item.err != nil {
			c.logger.Warn("batch_item_skipped", "key", files[i].Key, "original_filename", files[i].OriginalFilename, "error", item.err)
			outcome.Fail(files[i], item.err.Error())
			continue
		}
		outcome.Add(item.result)
		if c.observer != nil {
			c.observer.ObserveResult(item.result)
		}
	}

	c.logger.Info("batch_completed",
		"files", len(files),
		"processed", outcome.Processed(),
		"failed", len(outcome.Failures),
		"workers", c.workers,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return outcome, nil
}

func (c *BatchCoordinator) processOne(ctx context.Context, file domain.SourceFile) (result domain.ClassificationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.WrapError(domain.ErrBatchItem, "process "+file.Key, fmt.Errorf("panic: %v", r))
		}
	}()

	text, err := c.extractor.Extract(ctx, file)
	if err != nil {
		return domain.ClassificationResult{}, domain.WrapError(domain.ErrBatchItem, "extract "+file.Key, err)
	}
	analysis := c.analyzer.Analyze(ctx, text)
	return c.assembler.Assemble(file, text, analysis), nil
}
