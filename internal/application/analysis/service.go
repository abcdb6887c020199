// Package analysis runs the analysis cascade: normalize, cache lookup,
// local classifier, remote classifier and the basic keyword fallback.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/automaton-pricing/internal/application"
	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/textproc"
)

const (
	DefaultBatchConcurrency = 8
	DefaultCompactMaxSize   = 1000
)

type Options struct {
	UseLocal         bool
	UseRemote        bool
	BatchConcurrency int
	// CompactMaxSize is the cache size above which CompactCache evicts expired entries.
	CompactMaxSize int
}

// Service implements the analysis use-cases.
// Service is safe for concurrent use; Local, Remote and Cache must be too.
type Service struct {
	Local    domain.LocalClassifier
	Remote   domain.RemoteClassifier
	Cache    domain.Cache
	Records  domain.RecordRepository
	Failures domain.FailureRepository
	Reports  domain.ReportStore
	Clock    application.Clock
	Options  Options

	localOff atomic.Bool
	stats    recorder
}

// Analyze returns a fully populated result for text. It never fails: every
// stage error falls through to the next stage and finally to the basic fallback.
func (s *Service) Analyze(ctx context.Context, text, source string) domain.Result {
	start := s.now()

	normalized := textproc.Normalize(text)
	if normalized == "" {
		res := domain.Fallback()
		s.stats.record(res.Method, s.now().Sub(start))
		return res
	}

	key := domain.CacheKey(normalized, source)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(key); ok {
			cached.Method = domain.MethodCache
			s.stats.record(domain.MethodCache, s.now().Sub(start))
			return cached
		}
	}

	res := s.cascade(ctx, normalized, source)
	if s.Cache != nil {
		s.Cache.Put(key, res)
	}
	s.stats.record(res.Method, s.now().Sub(start))
	return res
}

func (s *Service) cascade(ctx context.Context, text, source string) domain.Result {
	if s.localEnabled() {
		lr, err := s.Local.Classify(ctx, text)
		switch {
		case err == nil && lr.Confidence != domain.ConfidenceLow:
			return merge(text, domain.Result{
				Module:     lr.Module,
				Confidence: lr.Confidence,
				Method:     domain.MethodLocal,
			})
		case errors.Is(err, domain.ErrUnavailable):
			// load failures are permanent, stop asking for this process lifetime
			s.localOff.Store(true)
			slog.WarnContext(ctx, "local classifier disabled", "err", err)
			s.recordFailure(ctx, "local", source, err)
		case err != nil:
			slog.WarnContext(ctx, "local classifier failed", "kind", domain.KindOf(err), "err", err)
			s.recordFailure(ctx, "local", source, err)
		}
	}

	if s.Options.UseRemote && s.Remote != nil {
		rr, err := s.Remote.Classify(ctx, text)
		if err == nil {
			rr.Method = domain.MethodRemote
			return merge(text, rr)
		}
		slog.WarnContext(ctx, "remote classifier failed, using basic analysis",
			"provider", s.Remote.Name(), "kind", domain.KindOf(err), "err", err)
		s.recordFailure(ctx, "remote", source, err)
	}

	return basic(text)
}

func (s *Service) localEnabled() bool {
	return s.Options.UseLocal && s.Local != nil && !s.localOff.Load()
}

// LocalDisabled reports whether the local stage was switched off after a load failure.
func (s *Service) LocalDisabled() bool {
	return s.localOff.Load()
}

func (s *Service) recordFailure(ctx context.Context, stage, source string, err error) {
	if s.Failures == nil {
		return
	}
	f := &domain.Failure{
		Stage:     stage,
		Kind:      domain.KindOf(err),
		Source:    source,
		Message:   err.Error(),
		CreatedAt: s.now(),
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.Failures.Save(ctx, f); err != nil {
		slog.ErrorContext(ctx, "save stage failure", "stage", stage, "err", err)
	}
}

// CompactCache evicts expired entries when the cache is above the configured size.
func (s *Service) CompactCache() int {
	if s.Cache == nil {
		return 0
	}
	limit := s.Options.CompactMaxSize
	if limit <= 0 {
		limit = DefaultCompactMaxSize
	}
	n := s.Cache.Compact(limit)
	if n > 0 {
		slog.Info("cache compacted", "removed", n, "size", s.Cache.Len())
	}
	return n
}

func (s *Service) ClearCache() {
	if s.Cache != nil {
		s.Cache.Clear()
	}
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Embed returns the local stage's vector for the normalized text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	e, ok := s.Local.(embedder)
	if !ok {
		return nil, fmt.Errorf("embedding: %w: local stage has no embedder", domain.ErrUnavailable)
	}
	return e.Embed(ctx, textproc.Normalize(text))
}
