package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
		CORSOrigins     []string      `yaml:"corsOrigins"`
		MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text | json
	} `yaml:"log"`

	Analyzer struct {
		UseLocalModels   bool          `yaml:"useLocalModels"`
		UseGPTBackup     bool          `yaml:"useGptBackup"`
		CacheTTL         time.Duration `yaml:"cacheTTL"`
		CacheCapacity    int           `yaml:"cacheCapacity"`
		CompactMaxSize   int           `yaml:"compactMaxSize"`
		BatchConcurrency int           `yaml:"batchConcurrency"`
		MaxBatchSize     int           `yaml:"maxBatchSize"`
		Workers          int           `yaml:"workers"`
		CategoriesFile   string        `yaml:"categoriesFile"`
	} `yaml:"analyzer"`

	Remote struct {
		Provider          string        `yaml:"provider"`
		Model             string        `yaml:"model"`
		BaseURL           string        `yaml:"baseURL"`
		OpenAIAPIKey      string        `yaml:"openaiApiKey"`
		AnthropicAPIKey   string        `yaml:"anthropicApiKey"`
		Temperature       float64       `yaml:"temperature"`
		MaxTokens         int           `yaml:"maxTokens"`
		MaxInputChars     int           `yaml:"maxInputChars"`
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	} `yaml:"remote"`

	Embedding struct {
		Provider  string        `yaml:"provider"` // hashing | ollama
		BaseURL   string        `yaml:"baseURL"`
		Model     string        `yaml:"model"`
		Dimension int           `yaml:"dimension"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"embedding"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres, empty disables persistence
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Auth struct {
		// APIKeys maps an API key to the client name it identifies.
		APIKeys           map[string]string `yaml:"apiKeys"`
		RequestsPerMinute int               `yaml:"requestsPerMinute"`
	} `yaml:"auth"`

	Schedule struct {
		Compact       string `yaml:"compact"`
		Backfill      string `yaml:"backfill"`
		BackfillLimit int    `yaml:"backfillLimit"`
	} `yaml:"schedule"`
}

// Override adjusts a loaded config before defaults and validation run.
type Override func(*Config)

// LocalOnly disables the remote stage.
func LocalOnly(c *Config) { c.Analyzer.UseGPTBackup = false }

// RemoteOnly disables the local stage.
func RemoteOnly(c *Config) { c.Analyzer.UseLocalModels = false }

// Load reads the YAML file at path, falling back to $CONFIG_PATH and then
// config.yaml. A missing file is not an error; env overrides and defaults still apply.
func Load(path string, overrides ...Override) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	cfg.Analyzer.UseLocalModels = true
	cfg.Analyzer.UseGPTBackup = true

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	envString(&c.Remote.OpenAIAPIKey, "OPENAI_API_KEY")
	envString(&c.Remote.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envString(&c.Remote.Provider, "REMOTE_PROVIDER")
	envString(&c.Remote.Model, "REMOTE_MODEL")
	envString(&c.Database.Driver, "DB_DRIVER")
	envString(&c.Database.Host, "DB_HOST")
	envString(&c.Database.User, "DB_USER")
	envString(&c.Database.Password, "DB_PASSWORD")
	envString(&c.Database.Name, "DB_NAME")
	envString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	envString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	envString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	envString(&c.Minio.BucketName, "MINIO_BUCKET")
	envString(&c.Minio.Region, "MINIO_REGION")
	envString(&c.Log.Level, "LOG_LEVEL")
	envString(&c.Log.Format, "LOG_FORMAT")

	return errors.Join(
		envBool(&c.Analyzer.UseLocalModels, "USE_LOCAL_MODELS"),
		envBool(&c.Analyzer.UseGPTBackup, "USE_GPT_BACKUP"),
		envBool(&c.Minio.UseSSL, "MINIO_USE_SSL"),
		envInt(&c.Database.Port, "DB_PORT"),
		envInt(&c.Server.Port, "SERVER_PORT"),
	)
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Port, 8080)
	setDefault(&c.Server.ReadTimeout, 15*time.Second)
	setDefault(&c.Server.WriteTimeout, 120*time.Second)
	setDefault(&c.Server.ShutdownTimeout, 10*time.Second)
	setDefault(&c.Server.MaxBodyBytes, 1<<20)

	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "text")

	setDefault(&c.Analyzer.CacheTTL, time.Hour)
	setDefault(&c.Analyzer.CacheCapacity, 10000)
	setDefault(&c.Analyzer.CompactMaxSize, 1000)
	setDefault(&c.Analyzer.BatchConcurrency, 8)
	setDefault(&c.Analyzer.MaxBatchSize, 100)

	setDefault(&c.Remote.Provider, "openai")
	setDefault(&c.Remote.Temperature, 0.1)
	setDefault(&c.Remote.MaxTokens, 1000)
	setDefault(&c.Remote.MaxInputChars, 1000)
	setDefault(&c.Remote.Timeout, 30*time.Second)

	setDefault(&c.Embedding.Provider, "hashing")
	setDefault(&c.Embedding.BaseURL, "http://localhost:11434")
	setDefault(&c.Embedding.Model, "nomic-embed-text")
	setDefault(&c.Embedding.Dimension, 384)
	setDefault(&c.Embedding.Timeout, 10*time.Second)

	switch c.Database.Driver {
	case "mysql":
		setDefault(&c.Database.Port, 3306)
	case "postgres":
		setDefault(&c.Database.Port, 5432)
		setDefault(&c.Database.SSLMode, "disable")
	}
	setDefault(&c.Database.Host, "localhost")

	setDefault(&c.Auth.RequestsPerMinute, 60)
	setDefault(&c.Schedule.BackfillLimit, 100)
}

// Validate fails fast on settings that would only surface on the first request.
func (c *Config) Validate() error {
	var errs []error
	if c.Analyzer.UseGPTBackup {
		switch c.Remote.Provider {
		case "openai", "anthropic":
			if c.RemoteAPIKey() == "" {
				errs = append(errs, fmt.Errorf("remote stage enabled but no API key set for provider %q", c.Remote.Provider))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown remote provider %q", c.Remote.Provider))
		}
	}
	switch c.Database.Driver {
	case "", "mysql", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	switch c.Embedding.Provider {
	case "hashing", "ollama":
	default:
		errs = append(errs, fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if c.Analyzer.CacheTTL <= 0 {
		errs = append(errs, errors.New("analyzer.cacheTTL must be positive"))
	}
	return errors.Join(errs...)
}

// RemoteAPIKey returns the key for the configured remote provider.
func (c *Config) RemoteAPIKey() string {
	switch c.Remote.Provider {
	case "anthropic":
		return c.Remote.AnthropicAPIKey
	default:
		return c.Remote.OpenAIAPIKey
	}
}

// MySQLDSN builds the go-sql-driver DSN with parseTime enabled.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDefault[T comparable](dst *T, v T) {
	var zero T
	if *dst == zero {
		*dst = v
	}
}
