// Package classification turns extracted document text into a typed,
// department-routed and prioritised analysis. Every step that consults the
// completion service has a deterministic rule-based fallback.
package classification

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

const (
	StepDocumentType = "document_type"
	StepDepartment   = "department"
	StepSummary      = "summary"
	StepKeyPoints    = "key_points"
	StepActionItems  = "action_items"
)

const (
	OutcomeCompletion          = "completion"
	OutcomeFallbackUnavailable = "fallback_unavailable"
	OutcomeFallbackMalformed   = "fallback_malformed"
)

// StepObserver is notified once per completion-backed step.
type StepObserver interface {
	ObserveStep(step, outcome string)
}

type Options struct {
	Logger   *slog.Logger
	Observer StepObserver
}

// Engine runs the classification steps. Per-call timeouts belong to the
// completion client.
type Engine struct {
	client   ports.CompletionClient
	logger   *slog.Logger
	observer StepObserver
	schemas  completionSchemas
}

// NewEngine builds an engine. A nil client runs every step on its fallback.
func NewEngine(client ports.CompletionClient, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		client:   client,
		logger:   logger,
		observer: opts.Observer,
		schemas:  compileSchemas(),
	}
}

// Analyze runs all classification steps in order. Type feeds routing and
// both feed the summary prompt.
func (e *Engine) Analyze(ctx context.Context, text string) domain.Analysis {
	docType := e.ClassifyType(ctx, text)
	department := e.RouteDepartment(ctx, docType, text)
	summary := e.Summarize(ctx, docType, text)
	keyPoints := e.KeyPoints(ctx, text)
	actionItems := e.ActionItems(ctx, text)

	var deadline *string
	if found, ok := ExtractDeadline(text); ok {
		deadline = &found
	}

	return domain.Analysis{
		DocumentType: docType,
		Department:   department,
		Summary:      summary,
		KeyPoints:    keyPoints,
		ActionItems:  actionItems,
		Deadline:     deadline,
		Priority:     DeterminePriority(text),
	}
}

func (e *Engine) complete(ctx context.Context, step string, req ports.CompletionRequest) (string, error) {
	if e.client == nil {
		return "", domain.WrapError(domain.ErrCompletionUnavailable, step, errors.New("no completion client configured"))
	}

	text, err := e.client.Complete(ctx, req)
	if err != nil {
		if domain.IsKind(err, domain.ErrCompletionUnavailable) {
			return "", err
		}
		return "", domain.WrapError(domain.ErrCompletionUnavailable, step, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.WrapError(domain.ErrCompletionUnavailable, step, errors.New("empty completion"))
	}
	return text, nil
}

func (e *Engine) record(step string, err error) {
	outcome := OutcomeCompletion
	switch {
	case err == nil:
	case domain.IsKind(err, domain.ErrMalformedCompletion):
		outcome = OutcomeFallbackMalformed
	default:
		outcome = OutcomeFallbackUnavailable
	}

	if err != nil {
		e.logger.Warn("classification_step", "step", step, "outcome", outcome, "error", err)
	} else {
		e.logger.Debug("classification_step", "step", step, "outcome", outcome)
	}
	if e.observer != nil {
		e.observer.ObserveStep(step, outcome)
	}
}
