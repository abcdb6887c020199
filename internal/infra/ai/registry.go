// Package ai resolves the configured remote classifier by name.
package ai

import (
	"cmp"
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/ai/anthropic"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/ai/openai"
)

// defaultTimeout matches the provider clients' own call timeout.
const defaultTimeout = 30 * time.Second

// Settings is the provider-neutral remote classifier configuration.
type Settings struct {
	Provider          string
	APIKey            string
	BaseURL           string
	Model             string
	Temperature       float64
	MaxTokens         int
	MaxInputChars     int
	Timeout           time.Duration
	RequestsPerSecond float64
}

type constructor func(Settings) domain.RemoteClassifier

var registry = map[string]constructor{
	"openai": func(s Settings) domain.RemoteClassifier {
		return openai.NewClient(openai.Config{
			APIKey:        s.APIKey,
			BaseURL:       s.BaseURL,
			Model:         s.Model,
			Temperature:   float32(s.Temperature),
			MaxTokens:     s.MaxTokens,
			MaxInputChars: s.MaxInputChars,
			Timeout:       s.Timeout,
		})
	},
	"anthropic": func(s Settings) domain.RemoteClassifier {
		return anthropic.NewClient(anthropic.Config{
			APIKey:        s.APIKey,
			BaseURL:       s.BaseURL,
			Model:         s.Model,
			Temperature:   s.Temperature,
			MaxTokens:     s.MaxTokens,
			MaxInputChars: s.MaxInputChars,
			Timeout:       s.Timeout,
		})
	},
}

// Providers lists the registered provider names.
func Providers() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New builds the remote classifier for s.Provider. Unknown providers and
// missing credentials fail here, at startup, instead of on the first call.
func New(s Settings) (domain.RemoteClassifier, error) {
	ctor, ok := registry[s.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown remote provider %q (available: %v)", s.Provider, Providers())
	}
	if s.APIKey == "" {
		return nil, fmt.Errorf("remote provider %q: api key is required", s.Provider)
	}
	rc := ctor(s)
	if s.RequestsPerSecond > 0 {
		burst := max(1, int(s.RequestsPerSecond))
		rc = &limited{
			next:    rc,
			limiter: rate.NewLimiter(rate.Limit(s.RequestsPerSecond), burst),
			timeout: cmp.Or(s.Timeout, defaultTimeout),
		}
	}
	return rc, nil
}

// limited holds callers back to the provider's request rate. The timeout
// bounds the queue wait and the call together.
type limited struct {
	next    domain.RemoteClassifier
	limiter *rate.Limiter
	timeout time.Duration
}

func (l *limited) Name() string { return l.next.Name() }

func (l *limited) Classify(ctx context.Context, text string) (domain.Result, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return domain.Result{}, fmt.Errorf("%s: %w: %v", l.next.Name(), domain.ErrTimeout, err)
	}
	return l.next.Classify(ctx, text)
}
