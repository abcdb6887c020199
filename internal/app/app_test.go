package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/automaton-pricing/internal/config"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/classifier/keyword"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/embedding/ollama"
)

func testConfig(t *testing.T, overrides ...config.Override) *config.Config {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DB_DRIVER", "")
	cfg, err := config.Load(t.TempDir()+"/none.yaml", overrides...)
	require.NoError(t, err)
	return cfg
}

func TestNewWiresStages(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Service.Local)
	require.NotNil(t, a.Service.Remote)
	require.Equal(t, "openai:gpt-4", a.Service.Remote.Name())
	require.Nil(t, a.Service.Records)
	require.Contains(t, a.Checkers, "analyzer")
	require.NotContains(t, a.Checkers, "database")

	st := a.Service.Stats()
	require.True(t, st.LocalEnabled)
	require.Contains(t, st.LocalModelInfo.ModelsLoaded, "hashing-embedder")
}

func TestNewLocalOnly(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, config.LocalOnly))
	require.NoError(t, err)

	require.Nil(t, a.Service.Remote)
	res := a.Service.Analyze(context.Background(), "crypto wallet with setup fee $1,000", "test")
	require.Equal(t, "Wallet Base", res.Module)
	require.Equal(t, "$1,000", res.EstimatedPrice)
}

func TestNewEmbedder(t *testing.T) {
	cfg := testConfig(t)
	_, ok := newEmbedder(cfg).(*keyword.HashingEmbedder)
	require.True(t, ok)

	cfg.Embedding.Provider = "ollama"
	_, ok = newEmbedder(cfg).(*ollama.Embedder)
	require.True(t, ok)
}

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := SetupLogging(&buf, "warn", "json")
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestSchedule(t *testing.T) {
	cfg := testConfig(t, config.LocalOnly)
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Schedule.Compact = "*/15 * * * *"
	cfg.Schedule.Backfill = "0 3 * * *"
	c, err := a.Schedule(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Entries(), 2)

	cfg.Schedule.Backfill = "every tuesday"
	_, err = a.Schedule(context.Background())
	require.Error(t, err)
}
