// Package ollama embeds text through a local Ollama server.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "nomic-embed-text"
)

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

type Embedder struct {
	http  *resty.Client
	model string
	dim   int
}

// New returns an embedder for baseURL. dim is the expected vector length;
// replies of any other length are rejected.
func New(baseURL, model string, dim int, timeout time.Duration) *Embedder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Embedder{http: client, model: model, dim: dim}
}

func (e *Embedder) Name() string   { return "ollama:" + e.model }
func (e *Embedder) Dimension() int { return e.dim }

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var out embeddingResponse
	res, err := e.http.R().
		SetContext(ctx).
		SetBody(embeddingRequest{Model: e.model, Prompt: text}).
		SetResult(&out).
		ForceContentType("application/json").
		Post("/api/embeddings")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("ollama embed: %w", domain.ErrTimeout)
		}
		return nil, fmt.Errorf("ollama embed: %w: %v", domain.ErrTransport, err)
	}
	switch {
	case res.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("ollama embed: model %q: %w", e.model, domain.ErrUnavailable)
	case res.IsError():
		return nil, fmt.Errorf("ollama embed: %w: status %s", domain.ErrTransport, res.Status())
	}
	if e.dim > 0 && len(out.Embedding) != e.dim {
		return nil, fmt.Errorf("ollama embed: %w: got %d dimensions, want %d", domain.ErrParse, len(out.Embedding), e.dim)
	}

	vec := make([]float32, len(out.Embedding))
	for i, v := range out.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
