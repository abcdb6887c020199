// Package anthropic classifies text with the Claude Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/ai/prompt"
)

const (
	DefaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 1000
	defaultTimeout   = 30 * time.Second
)

type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Temperature   float64
	MaxTokens     int
	MaxInputChars int
	Timeout       time.Duration
}

type Client struct {
	api anthropic.Client
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{api: anthropic.NewClient(opts...), cfg: cfg}
}

func (c *Client) Name() string { return "anthropic:" + c.cfg.Model }

func (c *Client) Classify(ctx context.Context, text string) (domain.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	message, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.cfg.Model),
		MaxTokens:   int64(c.cfg.MaxTokens),
		Temperature: anthropic.Float(c.cfg.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: prompt.SystemPrompt()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.UserPrompt(text, c.cfg.MaxInputChars))),
		},
	})
	if err != nil {
		return domain.Result{}, classifyError(ctx, err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			res, err := prompt.ParseReply(block.Text)
			if err != nil {
				return domain.Result{}, fmt.Errorf("anthropic: %w", err)
			}
			return res, nil
		}
	}
	return domain.Result{}, fmt.Errorf("anthropic: %w: no text content in response", domain.ErrParse)
}

func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("anthropic: %w: %v", domain.ErrTimeout, err)
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("anthropic: %w: %v", domain.ErrQuotaExceeded, err)
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("anthropic: %w: %v", domain.ErrUnavailable, err)
		}
	}
	return fmt.Errorf("anthropic: %w: %v", domain.ErrTransport, err)
}
