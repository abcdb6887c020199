// Package app wires configuration into a ready analysis service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bryanwahyu/automaton-pricing/internal/application"
	appanalysis "github.com/bryanwahyu/automaton-pricing/internal/application/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/config"
	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/ai"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/cache"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/classifier/keyword"
	mysqlp "github.com/bryanwahyu/automaton-pricing/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/automaton-pricing/internal/infra/db/postgres"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/embedding/ollama"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/storage"
	"github.com/bryanwahyu/automaton-pricing/internal/middleware"
)

type database struct {
	connect  func(ctx context.Context, cfg *config.Config) (*sql.DB, error)
	records  func(*sql.DB) domain.RecordRepository
	failures func(*sql.DB) domain.FailureRepository
}

var databases = map[string]database{
	"mysql": {
		connect:  func(ctx context.Context, cfg *config.Config) (*sql.DB, error) { return mysqlp.Connect(ctx, cfg.MySQLDSN()) },
		records:  func(db *sql.DB) domain.RecordRepository { return mysqlp.NewRecordRepository(db) },
		failures: func(db *sql.DB) domain.FailureRepository { return mysqlp.NewFailureRepository(db) },
	},
	"postgres": {
		connect:  func(ctx context.Context, cfg *config.Config) (*sql.DB, error) { return postgresp.Connect(ctx, cfg.PostgresDSN()) },
		records:  func(db *sql.DB) domain.RecordRepository { return postgresp.NewRecordRepository(db) },
		failures: func(db *sql.DB) domain.FailureRepository { return postgresp.NewFailureRepository(db) },
	},
}

// App owns the service and the connections behind it.
type App struct {
	Config   *config.Config
	Service  *appanalysis.Service
	DB       *sql.DB
	Store    *storage.Store
	Checkers map[string]middleware.HealthChecker
}

// New builds every configured component. The database is required only when a
// driver is configured; MinIO is optional and degrades to no report archiving.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Checkers: map[string]middleware.HealthChecker{}}

	c, err := cache.NewMemory(cfg.Analyzer.CacheCapacity, cfg.Analyzer.CacheTTL, nil)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	svc := &appanalysis.Service{
		Cache: c,
		Clock: application.SystemClock{},
		Options: appanalysis.Options{
			UseLocal:         cfg.Analyzer.UseLocalModels,
			UseRemote:        cfg.Analyzer.UseGPTBackup,
			BatchConcurrency: cfg.Analyzer.BatchConcurrency,
			CompactMaxSize:   cfg.Analyzer.CompactMaxSize,
		},
	}
	a.Service = svc

	if cfg.Analyzer.UseLocalModels {
		svc.Local = keyword.New(keyword.Options{
			CategoriesFile: cfg.Analyzer.CategoriesFile,
			Workers:        cfg.Analyzer.Workers,
			Embedder:       newEmbedder(cfg),
		})
	}

	if cfg.Analyzer.UseGPTBackup {
		remote, err := ai.New(ai.Settings{
			Provider:          cfg.Remote.Provider,
			APIKey:            cfg.RemoteAPIKey(),
			BaseURL:           cfg.Remote.BaseURL,
			Model:             cfg.Remote.Model,
			Temperature:       cfg.Remote.Temperature,
			MaxTokens:         cfg.Remote.MaxTokens,
			MaxInputChars:     cfg.Remote.MaxInputChars,
			Timeout:           cfg.Remote.Timeout,
			RequestsPerSecond: cfg.Remote.RequestsPerSecond,
		})
		if err != nil {
			return nil, fmt.Errorf("remote classifier: %w", err)
		}
		svc.Remote = remote
	}

	if cfg.Database.Driver != "" {
		d, ok := databases[cfg.Database.Driver]
		if !ok {
			return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
		}
		db, err := d.connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s connect: %w", cfg.Database.Driver, err)
		}
		a.DB = db
		svc.Records = d.records(db)
		svc.Failures = d.failures(db)
		a.Checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	if cfg.Minio.Endpoint != "" {
		store, err := storage.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			slog.WarnContext(ctx, "minio unavailable, backfill reports will not be archived", "err", err)
		} else {
			a.Store = store
			svc.Reports = store
			a.Checkers["minio"] = middleware.CheckerFunc(store.Ping)
		}
	}

	a.Checkers["analyzer"] = middleware.CheckerFunc(func(context.Context) error {
		if cfg.Analyzer.UseLocalModels && svc.LocalDisabled() && !cfg.Analyzer.UseGPTBackup {
			return errors.New("local classifier disabled and remote stage off, basic analysis only")
		}
		return nil
	})

	slog.InfoContext(ctx, "analyzer ready",
		"local", cfg.Analyzer.UseLocalModels,
		"remote", cfg.Analyzer.UseGPTBackup,
		"provider", cfg.Remote.Provider,
		"database", cfg.Database.Driver,
		"cache_ttl", cfg.Analyzer.CacheTTL,
		"cache_capacity", cfg.Analyzer.CacheCapacity,
	)
	return a, nil
}

func newEmbedder(cfg *config.Config) domain.Embedder {
	if cfg.Embedding.Provider == "ollama" {
		return ollama.New(cfg.Embedding.BaseURL, cfg.Embedding.Model, cfg.Embedding.Dimension, cfg.Embedding.Timeout)
	}
	return keyword.NewHashingEmbedder(cfg.Embedding.Dimension)
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
