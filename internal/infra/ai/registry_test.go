package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

func TestNew(t *testing.T) {
	rc, err := New(Settings{Provider: "openai", APIKey: "k", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	require.Equal(t, "openai:gpt-4o-mini", rc.Name())

	rc, err = New(Settings{Provider: "anthropic", APIKey: "k"})
	require.NoError(t, err)
	require.Contains(t, rc.Name(), "anthropic:")

	rc, err = New(Settings{Provider: "openai", APIKey: "k", RequestsPerSecond: 2})
	require.NoError(t, err)
	require.IsType(t, &limited{}, rc)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Settings{Provider: "bard", APIKey: "k"})
	require.ErrorContains(t, err, "unknown remote provider")

	_, err = New(Settings{Provider: "openai"})
	require.ErrorContains(t, err, "api key is required")
}

type stubRemote struct {
	calls    int
	deadline time.Time
}

func (s *stubRemote) Name() string { return "stub" }
func (s *stubRemote) Classify(ctx context.Context, _ string) (domain.Result, error) {
	s.calls++
	s.deadline, _ = ctx.Deadline()
	return domain.Fallback(), nil
}

func TestLimitedRespectsContext(t *testing.T) {
	next := &stubRemote{}
	l := &limited{next: next, limiter: rate.NewLimiter(rate.Every(time.Hour), 1)}

	_, err := l.Classify(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Classify(ctx, "b")
	require.True(t, errors.Is(err, domain.ErrTimeout))
	require.Equal(t, 1, next.calls)
}

func TestLimitedTimeoutCoversQueueWait(t *testing.T) {
	next := &stubRemote{}
	l := &limited{next: next, limiter: rate.NewLimiter(rate.Every(time.Hour), 1), timeout: 20 * time.Millisecond}

	before := time.Now()
	_, err := l.Classify(context.Background(), "a")
	require.NoError(t, err)
	require.WithinDuration(t, before.Add(20*time.Millisecond), next.deadline, time.Second)

	_, err = l.Classify(context.Background(), "b")
	require.True(t, errors.Is(err, domain.ErrTimeout))
	require.Equal(t, 1, next.calls)
}

func TestNewLimitedUsesConfiguredTimeout(t *testing.T) {
	rc, err := New(Settings{Provider: "openai", APIKey: "k", RequestsPerSecond: 2, Timeout: 5 * time.Second})
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, rc.(*limited).timeout)

	rc, err = New(Settings{Provider: "openai", APIKey: "k", RequestsPerSecond: 2})
	require.NoError(t, err)
	require.Equal(t, defaultTimeout, rc.(*limited).timeout)
}
