package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/dept-intake/internal/config"
	"github.com/kirillkom/dept-intake/internal/core/ports"
	"github.com/kirillkom/dept-intake/internal/core/usecase"
	"github.com/kirillkom/dept-intake/internal/infrastructure/queue/nats"
	"github.com/kirillkom/dept-intake/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/dept-intake/internal/infrastructure/resilience"
	"github.com/kirillkom/dept-intake/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/dept-intake/internal/observability/metrics"
)

type Options struct {
	Logger *slog.Logger
	// WorkerMetrics, when set, observes classification steps, routed
	// results and breaker transitions.
	WorkerMetrics *metrics.WorkerMetrics
}

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	Storage   ports.ObjectStorage
	IngestUC    ports.DocumentIngestor
	ProcessUC   ports.DocumentProcessor
	QueryUC     ports.DocumentReader
	ReprocessUC ports.DocumentReprocessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(cfg.Resilience(resilience.ProfilePublish), resilience.WithLogger(logger)),
		QueueGroup:         cfg.NATSGroup,
		Workers:            cfg.NATSWorkers,
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	pipeline, err := NewPipeline(cfg, storage, logger, opts.WorkerMetrics)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, err
	}

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, storage, pipeline.Extractor, pipeline.Analyzer, pipeline.Assembler, pipeline.Observer)
	queryUC := usecase.NewDocumentQueryUseCase(repo)
	reprocessUC := usecase.NewReprocessDocumentUseCase(repo, queue, logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Queue:   queue,
		Repo:    repo,
		Storage: storage,

		IngestUC:    ingestUC,
		ProcessUC:   processUC,
		QueryUC:     queryUC,
		ReprocessUC: reprocessUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
