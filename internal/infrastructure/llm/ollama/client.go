package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
	"github.com/AnshAggr1303/loan-agent-system/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func New(baseURL, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Extractor asks the model for stage-scoped entities from a free-text
// message. Callers re-validate everything it returns; a model outage only
// disables the fallback, deterministic parsing stays in charge.
type Extractor struct {
	client   *Client
	executor *resilience.Executor
	limiter  *rate.Limiter
}

type ExtractorOptions struct {
	ResilienceExecutor *resilience.Executor
	// RequestsPerSecond throttles model calls so a chatty session cannot
	// monopolize the single local model. Zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

func NewExtractor(client *Client, options ExtractorOptions) *Extractor {
	var limiter *rate.Limiter
	if options.RequestsPerSecond > 0 {
		burst := options.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(options.RequestsPerSecond), burst)
	}
	return &Extractor{
		client:   client,
		executor: options.ResilienceExecutor,
		limiter:  limiter,
	}
}

func (e *Extractor) ExtractIntent(ctx context.Context, stage domain.Stage, message string, history []domain.ChatMessage) (*domain.ExtractedIntent, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	prompt := buildExtractionPrompt(stage, message, history)

	var raw string
	call := func(ctx context.Context) error {
		out, err := e.client.generateJSON(ctx, prompt)
		if err != nil {
			return err
		}
		raw = out
		return nil
	}

	var err error
	if e.executor != nil {
		err = e.executor.Execute(ctx, "ollama.extract", call, classifyOllamaError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded("ollama extract", err)
	}

	var intent domain.ExtractedIntent
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &intent); err != nil {
		return nil, fmt.Errorf("parse extraction json: %w", err)
	}
	if intent.Entities == nil {
		intent.Entities = map[string]any{}
	}
	return &intent, nil
}

func (c *Client) generateJSON(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
