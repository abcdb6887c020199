package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

// AnalyzeBatch analyzes every request concurrently and returns results in
// input order. An item that panics yields the fallback result; siblings are unaffected.
func (s *Service) AnalyzeBatch(ctx context.Context, reqs []domain.Request) []domain.Result {
	results := make([]domain.Result, len(reqs))
	limit := s.Options.BatchConcurrency
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = s.analyzeIsolated(ctx, i, req)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Service) analyzeIsolated(ctx context.Context, idx int, req domain.Request) (res domain.Result) {
	defer func() {
		if p := recover(); p != nil {
			slog.ErrorContext(ctx, "batch item failed", "index", idx, "source", req.Source, "panic", p)
			s.recordFailure(ctx, "batch", req.Source, fmt.Errorf("panic: %v", p))
			res = domain.Fallback()
		}
	}()
	return s.Analyze(ctx, req.Text, req.Source)
}
