package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
	"github.com/kirillkom/dept-intake/internal/infrastructure/resilience"
)

const completionOperation = "llm_complete"

// Guard bounds a provider with a per-call timeout, a shared rate limit and
// the resilience executor. Every failure it returns is ErrCompletionUnavailable.
type Guard struct {
	inner    ports.CompletionClient
	executor *resilience.Executor
	limiter  *resilience.RateLimiter
	timeout  time.Duration
}

type GuardOptions struct {
	Executor *resilience.Executor
	Limiter  *resilience.RateLimiter
	// Timeout bounds one attempt; zero leaves the caller's deadline.
	Timeout time.Duration
}

func NewGuard(inner ports.CompletionClient, opts GuardOptions) *Guard {
	return &Guard{
		inner:    inner,
		executor: opts.Executor,
		limiter:  opts.Limiter,
		timeout:  opts.Timeout,
	}
}

func (g *Guard) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	var text string
	call := func(callCtx context.Context) error {
		if g.limiter != nil {
			if err := g.limiter.Wait(callCtx); err != nil {
				return err
			}
		}
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, g.timeout)
			defer cancel()
		}
		out, err := g.inner.Complete(callCtx, req)
		if err != nil {
			return err
		}
		text = out
		return nil
	}

	var err error
	if g.executor != nil {
		err = g.executor.Execute(ctx, completionOperation, call, ClassifyError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		if domain.IsKind(err, domain.ErrCompletionUnavailable) {
			return "", err
		}
		return "", domain.WrapError(domain.ErrCompletionUnavailable, completionOperation, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrCompletionUnavailable, completionOperation, errors.New("empty completion"))
	}
	return text, nil
}

// Disabled is the completion client of the fully rule-based mode.
type Disabled struct{}

func (Disabled) Complete(context.Context, ports.CompletionRequest) (string, error) {
	return "", domain.WrapError(domain.ErrCompletionUnavailable, completionOperation, errors.New("completion provider disabled"))
}
