package classification

import (
	"context"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

const (
	keyPointsKey   = "key_points"
	actionItemsKey = "action_items"
	maxListItems   = 5
)

const keyPointsPlaceholder = "Document processed. Manual review recommended."

// KeyPoints returns up to five key points, or a single placeholder entry when
// the completion service cannot provide them.
func (e *Engine) KeyPoints(ctx context.Context, text string) []string {
	points, err := e.extractList(ctx, StepKeyPoints, keyPointsKey, buildKeyPointsPrompt(text), e.schemas.keyPoints)
	e.record(StepKeyPoints, err)
	if err != nil {
		return []string{keyPointsPlaceholder}
	}
	return points
}

// ActionItems returns up to five action items. No action items is a valid
// outcome, so the fallback is an empty list.
func (e *Engine) ActionItems(ctx context.Context, text string) []string {
	items, err := e.extractList(ctx, StepActionItems, actionItemsKey, buildActionItemsPrompt(text), e.schemas.actionItems)
	e.record(StepActionItems, err)
	if err != nil {
		return []string{}
	}
	return items
}

func (e *Engine) extractList(ctx context.Context, step, key, prompt string, schema *jsonschema.Schema) ([]string, error) {
	raw, err := e.complete(ctx, step, ports.CompletionRequest{
		Prompt:    prompt,
		System:    analysisSystemPrompt,
		MaxTokens: listMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := decodeValidated(raw, schema, &payload); err != nil {
		return nil, err
	}
	var items []any
	if err := json.Unmarshal(payload[key], &items); err != nil {
		return nil, domain.WrapError(domain.ErrMalformedCompletion, "decode "+key, err)
	}
	return renderItems(items), nil
}

func renderItems(items []any) []string {
	if len(items) > maxListItems {
		items = items[:maxListItems]
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		encoded, err := json.Marshal(item)
		if err != nil {
			continue
		}
		out = append(out, string(encoded))
	}
	return out
}
