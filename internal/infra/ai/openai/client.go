package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/ai/prompt"
)

const (
	DefaultModel     = "gpt-4"
	defaultMaxTokens = 1000
	defaultTimeout   = 30 * time.Second
)

type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Temperature   float32
	MaxTokens     int
	MaxInputChars int
	Timeout       time.Duration
}

type Client struct {
	api *openai.Client
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
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(oc), cfg: cfg}
}

func (c *Client) Name() string { return "openai:" + c.cfg.Model }

// Classify sends text to the chat completion API and parses the JSON reply.
func (c *Client) Classify(ctx context.Context, text string) (domain.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.UserPrompt(text, c.cfg.MaxInputChars)},
		},
	}
	// reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens and no temperature
	if reasoningModel(c.cfg.Model) {
		req.MaxCompletionTokens = c.cfg.MaxTokens
	} else {
		req.MaxTokens = c.cfg.MaxTokens
		req.Temperature = c.cfg.Temperature
		if supportsJSONFormat(c.cfg.Model) {
			req.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.Result{}, classifyError(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return domain.Result{}, fmt.Errorf("openai: %w: empty choices", domain.ErrParse)
	}
	res, err := prompt.ParseReply(resp.Choices[0].Message.Content)
	if err != nil {
		return domain.Result{}, fmt.Errorf("openai: %w", err)
	}
	return res, nil
}

func reasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

// plain gpt-4 predates the json_object response format
func supportsJSONFormat(model string) bool {
	return model != "gpt-4" && !strings.HasPrefix(model, "gpt-4-0")
}

func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("openai: %w: %v", domain.ErrTimeout, err)
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("openai: %w: %v", domain.ErrQuotaExceeded, err)
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return fmt.Errorf("openai: %w: %v", domain.ErrUnavailable, err)
	}
	return fmt.Errorf("openai: %w: %v", domain.ErrTransport, err)
}
