package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/kirillkom/dept-intake/internal/config"
	"github.com/kirillkom/dept-intake/internal/core/classification"
	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
	"github.com/kirillkom/dept-intake/internal/core/usecase"
	"github.com/kirillkom/dept-intake/internal/infrastructure/extractor/document"
	"github.com/kirillkom/dept-intake/internal/infrastructure/llm"
	"github.com/kirillkom/dept-intake/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/dept-intake/internal/infrastructure/llm/openai"
	"github.com/kirillkom/dept-intake/internal/infrastructure/resilience"
	"github.com/kirillkom/dept-intake/internal/observability/metrics"
)

// Pipeline is the extract, analyse and assemble chain shared by the worker
// and the batch CLI.
type Pipeline struct {
	Extractor ports.TextExtractor
	Analyzer  ports.DocumentAnalyzer
	Assembler ports.ResultAssembler
	// Observer is nil when no metrics are collected.
	Observer usecase.ResultObserver
}

func NewPipeline(cfg config.Config, storage ports.ObjectStorage, logger *slog.Logger, workerMetrics *metrics.WorkerMetrics) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var breakerObserver resilience.StateObserver
	engineOpts := classification.Options{Logger: logger}
	pipeline := &Pipeline{}
	if workerMetrics != nil {
		breakerObserver = workerMetrics.ObserveBreakerState
		engineOpts.Observer = workerMetrics
		pipeline.Observer = workerMetrics
	}

	client, err := NewCompletionClient(cfg, logger, breakerObserver)
	if err != nil {
		return nil, err
	}

	pipeline.Extractor = document.NewExtractor(storage, logger)
	pipeline.Analyzer = classification.NewEngine(client, engineOpts)
	pipeline.Assembler = usecase.NewResultAssembler(nil, nil)
	return pipeline, nil
}

// NewCompletionClient builds the configured provider behind the guard that
// applies timeout, rate limit, retry and circuit breaking.
func NewCompletionClient(cfg config.Config, logger *slog.Logger, observer resilience.StateObserver) (ports.CompletionClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var provider ports.CompletionClient
	switch cfg.LLMProvider {
	case config.ProviderOllama:
		provider = ollama.New(cfg.LLMURL, cfg.LLMModel, cfg.LLMTemperature)
	case config.ProviderOpenAI:
		provider = openai.New(cfg.LLMURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTemperature)
	case config.ProviderDisabled:
		logger.Warn("completion_disabled", "mode", "rule_based")
		return llm.Disabled{}, nil
	default:
		return nil, domain.WrapError(domain.ErrFatalConfiguration, "bootstrap.completion", fmt.Errorf("unknown provider %q", cfg.LLMProvider))
	}

	execOpts := []resilience.Option{resilience.WithLogger(logger)}
	if observer != nil {
		execOpts = append(execOpts, resilience.WithStateObserver(observer))
	}

	return llm.NewGuard(provider, llm.GuardOptions{
		Executor: resilience.NewExecutor(cfg.Resilience(resilience.ProfileCompletion), execOpts...),
		Limiter:  resilience.NewRateLimiter(cfg.LLMRateLimitRPS, cfg.LLMRateLimitBurst, logger),
		Timeout:  cfg.LLMTimeout,
	}), nil
}

// NewBatchCoordinator wires a batch run over storage without the database
// or the queue.
func NewBatchCoordinator(cfg config.Config, storage ports.ObjectStorage, logger *slog.Logger, workers int) (*usecase.BatchCoordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pipeline, err := NewPipeline(cfg, storage, logger, nil)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}
	return usecase.NewBatchCoordinator(pipeline.Extractor, pipeline.Analyzer, pipeline.Assembler, usecase.BatchOptions{
		Workers: workers,
		Logger:  logger,
	}), nil
}
