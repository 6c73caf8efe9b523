package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config configures an OpenAI-compatible Embedder/ChatCompleter. Model
// identifiers are opaque strings passed through verbatim — there is no
// built-in allow-list, per SPEC_FULL §4.1/§9.
type Config struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	Dimension      int
	Timeout        time.Duration
	MaxConcurrency int
}

// OpenAIAdapter implements Embedder and ChatCompleter against an
// OpenAI-compatible HTTP API (OpenAI itself, or any drop-in endpoint
// reachable via a configured BaseURL).
type OpenAIAdapter struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
	sem        chan struct{}
	retry      retryConfig
}

func NewOpenAIAdapter(cfg Config, logger *zap.Logger) *OpenAIAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 8
	}
	return &OpenAIAdapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		sem:        make(chan struct{}, cfg.MaxConcurrency),
		retry:      defaultRetryConfig(),
	}
}

func (a *OpenAIAdapter) Dimension() int {
	return a.cfg.Dimension
}

func (a *OpenAIAdapter) acquire(ctx context.Context) error {
	select {
	case a.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *OpenAIAdapter) release() {
	<-a.sem
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed embeds every text in one provider call; a single HTTP round
// trip per batch, batching further splits (beyond the provider's own
// input limits) are the caller's concern, not this adapter's.
func (a *OpenAIAdapter) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var out [][]float32
	err := withRetry(ctx, "openai", a.retry, func(ctx context.Context) error {
		if err := a.acquire(ctx); err != nil {
			return err
		}
		defer a.release()

		reqBody, err := json.Marshal(embeddingsRequest{Model: a.cfg.EmbeddingModel, Input: texts})
		if err != nil {
			return NewError("openai", Permanent, "marshal embeddings request", err)
		}

		resp, err := a.do(ctx, "/embeddings", reqBody)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return NewError("openai", Transient, "read embeddings response", readErr)
		}
		if resp.StatusCode != http.StatusOK {
			return classifyHTTPError(resp.StatusCode, body)
		}

		var parsed embeddingsResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return NewError("openai", Permanent, "unmarshal embeddings response", err)
		}
		if len(parsed.Data) != len(texts) {
			return NewError("openai", Permanent, "embedding count mismatch", nil)
		}

		vectors := make([][]float32, len(texts))
		for _, d := range parsed.Data {
			if a.cfg.Dimension > 0 && len(d.Embedding) != a.cfg.Dimension {
				return NewError("openai", Permanent, "embedding dimension mismatch", nil)
			}
			if d.Index < 0 || d.Index >= len(vectors) {
				return NewError("openai", Permanent, "embedding index out of range", nil)
			}
			vectors[d.Index] = d.Embedding
		}
		out = vectors
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete calls the chat-completions endpoint with the configured
// model, passed through verbatim with no allow-list check.
func (a *OpenAIAdapter) Complete(ctx context.Context, messages []ChatMessage, temperature float64) (string, error) {
	var reply string
	err := withRetry(ctx, "openai", a.retry, func(ctx context.Context) error {
		if err := a.acquire(ctx); err != nil {
			return err
		}
		defer a.release()

		converted := make([]chatMessage, len(messages))
		for i, m := range messages {
			converted[i] = chatMessage{Role: m.Role, Content: m.Content}
		}

		reqBody, err := json.Marshal(chatRequest{
			Model:       a.cfg.ChatModel,
			Messages:    converted,
			Temperature: temperature,
		})
		if err != nil {
			return NewError("openai", Permanent, "marshal chat request", err)
		}

		resp, err := a.do(ctx, "/chat/completions", reqBody)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return NewError("openai", Transient, "read chat response", readErr)
		}
		if resp.StatusCode != http.StatusOK {
			return classifyHTTPError(resp.StatusCode, body)
		}

		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return NewError("openai", Permanent, "unmarshal chat response", err)
		}
		if len(parsed.Choices) == 0 {
			return NewError("openai", Permanent, "no choices returned", nil)
		}
		reply = parsed.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (a *OpenAIAdapter) do(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, NewError("openai", Permanent, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, NewError("openai", Transient, "http request failed", err)
	}
	return resp, nil
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func classifyHTTPError(status int, body []byte) error {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)
	msg := parsed.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("status %d", status)
	}

	switch {
	case status == http.StatusTooManyRequests || status >= 500:
		return NewError("openai", Transient, msg, nil)
	case status >= 400:
		return NewError("openai", Permanent, msg, nil)
	default:
		return NewError("openai", Permanent, msg, nil)
	}
}
