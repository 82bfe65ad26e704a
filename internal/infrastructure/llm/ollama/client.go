package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/dept-intake/internal/core/ports"
	"github.com/kirillkom/dept-intake/internal/infrastructure/llm"
)

const providerName = "ollama"

// Client completes prompts against the Ollama /api/generate endpoint.
type Client struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

func New(baseURL, model string, temperature float64) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	payload := generateRequest{
		Model:  c.model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
		Options: generateOptions{
			NumPredict:  req.MaxTokens,
			Temperature: c.temperature,
		},
	}

	var response struct {
		Response string `json:"response"`
	}
	err := llm.PostJSON(ctx, c.httpClient, llm.Request{
		Provider:  providerName,
		Operation: "generate",
		URL:       c.baseURL + "/api/generate",
		Payload:   payload,
	}, &response)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
