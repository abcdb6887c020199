package analysis

import "context"

// LocalResult is the outcome of an in-process classification.
type LocalResult struct {
	Module     string             `json:"clasificacion_modulo"`
	Confidence Confidence         `json:"confianza_analisis"`
	Score      float64            `json:"score"`
	Scores     map[string]float64 `json:"scores"`
}

// ModelInfo describes the loaded local models for stats output.
type ModelInfo struct {
	Device       string   `json:"device"`
	ModelsLoaded []string `json:"models_loaded"`
	Directory    string   `json:"cache_directory,omitempty"`
}

// LocalClassifier classifies text without leaving the process.
// A load failure is reported as ErrUnavailable.
type LocalClassifier interface {
	Classify(ctx context.Context, text string) (LocalResult, error)
	Info() ModelInfo
}

// Embedder turns text into a fixed-length vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// RemoteClassifier asks a hosted model for a structured analysis.
// Fields the model could not resolve are returned empty or as sentinels.
type RemoteClassifier interface {
	Classify(ctx context.Context, text string) (Result, error)
	Name() string
}

// Cache memoizes results by CacheKey.
type Cache interface {
	Get(key string) (Result, bool)
	Put(key string, r Result)
	EvictExpired() int
	Compact(maxSize int) int
	Len() int
	Clear()
}

// RecordRepository persists scraped pricing records and their analysis.
type RecordRepository interface {
	ListUnanalyzed(ctx context.Context, limit int) ([]*Record, error)
	SaveAnalysis(ctx context.Context, id int64, r Result) error
	Paginate(ctx context.Context, page, pageSize int) ([]*Record, error)
}

// FailureRepository stores stage failures for later inspection.
type FailureRepository interface {
	Save(ctx context.Context, f *Failure) error
	Latest(ctx context.Context, limit int) ([]*Failure, error)
}

// ReportStore archives job reports.
type ReportStore interface {
	PutJSON(ctx context.Context, key string, v any) (string, error)
}
