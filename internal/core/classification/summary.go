package classification

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

const (
	fallbackSummaryLines   = 3
	fallbackSummaryMinLine = 30
)

func (e *Engine) Summarize(ctx context.Context, docType domain.DocumentType, text string) string {
	raw, err := e.complete(ctx, StepSummary, ports.CompletionRequest{
		Prompt:    buildSummaryPrompt(docType, text),
		MaxTokens: summaryMaxTokens,
	})
	e.record(StepSummary, err)
	if err == nil {
		return raw
	}
	return FallbackSummary(docType, text)
}

// FallbackSummary heads the first few substantial lines of text with the
// document type.
func FallbackSummary(docType domain.DocumentType, text string) string {
	lines := make([]string, 0, fallbackSummaryLines)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= fallbackSummaryMinLine {
			continue
		}
		lines = append(lines, line)
		if len(lines) == fallbackSummaryLines {
			break
		}
	}
	return "Summary of " + string(docType) + ":\n" + strings.Join(lines, "\n")
}
