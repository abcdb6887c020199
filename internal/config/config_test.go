package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.True(t, cfg.Analyzer.UseLocalModels)
	require.True(t, cfg.Analyzer.UseGPTBackup)
	require.Equal(t, time.Hour, cfg.Analyzer.CacheTTL)
	require.Equal(t, 10000, cfg.Analyzer.CacheCapacity)
	require.Equal(t, "openai", cfg.Remote.Provider)
	require.Equal(t, "sk-test", cfg.RemoteAPIKey())
	require.Equal(t, "hashing", cfg.Embedding.Provider)
	require.Empty(t, cfg.Database.Driver)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
analyzer:
  useLocalModels: false
  cacheTTL: 30m
remote:
  provider: anthropic
  anthropicApiKey: from-file
database:
  driver: postgres
  name: pricing
`)
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("USE_LOCAL_MODELS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.True(t, cfg.Analyzer.UseLocalModels)
	require.Equal(t, 30*time.Minute, cfg.Analyzer.CacheTTL)
	require.Equal(t, "from-env", cfg.RemoteAPIKey())
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "host=localhost port=5432 user= password= dbname=pricing sslmode=disable", cfg.PostgresDSN())
}

func TestLoadConfigPathEnv(t *testing.T) {
	path := writeConfig(t, "analyzer:\n  useGptBackup: false\n")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.False(t, cfg.Analyzer.UseGPTBackup)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]struct {
		body string
		env  map[string]string
	}{
		"remote without key":  {body: "remote:\n  provider: openai\n"},
		"unknown provider":    {body: "remote:\n  provider: cohere\n", env: map[string]string{"OPENAI_API_KEY": "k"}},
		"unknown db driver":   {body: "analyzer:\n  useGptBackup: false\ndatabase:\n  driver: oracle\n"},
		"unknown log format":  {body: "analyzer:\n  useGptBackup: false\nlog:\n  format: xml\n"},
		"bad bool override":   {body: "analyzer:\n  useGptBackup: false\n", env: map[string]string{"USE_LOCAL_MODELS": "maybe"}},
		"malformed yaml file": {body: "server: [\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", "")
			t.Setenv("ANTHROPIC_API_KEY", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database.User = "app"
	cfg.Database.Password = "secret"
	cfg.Database.Host = "db"
	cfg.Database.Port = 3306
	cfg.Database.Name = "pricing"
	require.Equal(t, "app:secret@tcp(db:3306)/pricing?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}

func TestLoadOverridesBeforeValidate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, "remote:\n  provider: openai\n")

	_, err := Load(path)
	require.Error(t, err)

	cfg, err := Load(path, LocalOnly)
	require.NoError(t, err)
	require.False(t, cfg.Analyzer.UseGPTBackup)

	cfg, err = Load(path, LocalOnly, RemoteOnly)
	require.NoError(t, err)
	require.False(t, cfg.Analyzer.UseLocalModels)
}
