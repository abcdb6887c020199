package analysis

import (
	"runtime"
	"sync"
	"time"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

type MethodTiming struct {
	Count   int64   `json:"count"`
	TotalMS float64 `json:"total_ms"`
	AvgMS   float64 `json:"avg_ms"`
}

type Stats struct {
	CacheSize       int                            `json:"cache_size"`
	CacheHitRate    float64                        `json:"cache_hit_rate"`
	TotalAnalyses   int64                          `json:"total_analyses"`
	AnalysisMethods map[domain.Method]int64        `json:"analysis_methods"`
	Timings         map[domain.Method]MethodTiming `json:"timings"`
	LocalEnabled    bool                           `json:"local_enabled"`
	RemoteProvider  string                         `json:"remote_provider,omitempty"`
	LocalModelInfo  *domain.ModelInfo              `json:"local_model_info,omitempty"`
}

type RuntimeInfo struct {
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	NumCPU     int    `json:"num_cpu"`
	Goroutines int    `json:"goroutines"`
}

type SystemStats struct {
	Analyzer Stats       `json:"analyzer"`
	Runtime  RuntimeInfo `json:"runtime"`
}

// recorder accumulates per-method counters. The zero value is ready to use.
type recorder struct {
	mu     sync.Mutex
	counts map[domain.Method]int64
	total  map[domain.Method]time.Duration
}

func (r *recorder) record(m domain.Method, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[domain.Method]int64, len(domain.Methods))
		r.total = make(map[domain.Method]time.Duration, len(domain.Methods))
	}
	r.counts[m]++
	r.total[m] += d
}

func (r *recorder) snapshot() (map[domain.Method]int64, map[domain.Method]MethodTiming, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.Method]int64, len(domain.Methods))
	timings := make(map[domain.Method]MethodTiming, len(domain.Methods))
	var all int64
	for _, m := range domain.Methods {
		n := r.counts[m]
		counts[m] = n
		all += n
		t := MethodTiming{Count: n, TotalMS: float64(r.total[m].Microseconds()) / 1000}
		if n > 0 {
			t.AvgMS = t.TotalMS / float64(n)
		}
		timings[m] = t
	}
	return counts, timings, all
}

// Stats is a read-only snapshot of cache size, method usage and local model metadata.
func (s *Service) Stats() Stats {
	counts, timings, all := s.stats.snapshot()
	st := Stats{
		TotalAnalyses:   all,
		AnalysisMethods: counts,
		Timings:         timings,
		LocalEnabled:    s.localEnabled(),
	}
	if s.Cache != nil {
		st.CacheSize = s.Cache.Len()
	}
	if all > 0 {
		st.CacheHitRate = float64(counts[domain.MethodCache]) / float64(all)
	}
	if s.Options.UseRemote && s.Remote != nil {
		st.RemoteProvider = s.Remote.Name()
	}
	if st.LocalEnabled {
		info := s.Local.Info()
		st.LocalModelInfo = &info
	}
	return st
}

func (s *Service) SystemStats() SystemStats {
	return SystemStats{
		Analyzer: s.Stats(),
		Runtime: RuntimeInfo{
			GoVersion:  runtime.Version(),
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NumCPU:     runtime.NumCPU(),
			Goroutines: runtime.NumGoroutine(),
		},
	}
}
