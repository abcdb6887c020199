package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

var ErrNoRecordStore = errors.New("record repository not configured")

const DefaultBackfillLimit = 100

type BackfillReport struct {
	ID                  string                `json:"id"`
	StartedAt           time.Time             `json:"started_at"`
	Processed           int                   `json:"procesados"`
	Succeeded           int                   `json:"exitosos"`
	Failed              int                   `json:"fallidos"`
	AnalysisMethods     map[domain.Method]int `json:"analysis_methods"`
	TotalSeconds        float64               `json:"total_seconds"`
	AvgSecondsPerRecord float64               `json:"avg_seconds_per_record"`
	RecordsPerSecond    float64               `json:"records_per_second"`
	CacheCompacted      int                   `json:"cache_compacted"`
	ReportURL           string                `json:"report_url,omitempty"`
	Errors              []string              `json:"errors,omitempty"`
}

// Backfill analyzes up to limit unanalyzed records and writes the results back.
// A record that fails to save is counted and skipped; only loading the batch is fatal.
func (s *Service) Backfill(ctx context.Context, limit int) (*BackfillReport, error) {
	if s.Records == nil {
		return nil, ErrNoRecordStore
	}
	if limit <= 0 {
		limit = DefaultBackfillLimit
	}
	start := s.now()
	rep := &BackfillReport{
		ID:              uuid.NewString(),
		StartedAt:       start,
		AnalysisMethods: map[domain.Method]int{},
	}

	recs, err := s.Records.ListUnanalyzed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list unanalyzed records: %w", err)
	}
	slog.InfoContext(ctx, "backfill started", "id", rep.ID, "records", len(recs))

	reqs := make([]domain.Request, len(recs))
	for i, r := range recs {
		reqs[i] = domain.Request{Text: r.Text, Source: r.Source}
	}
	results := s.AnalyzeBatch(ctx, reqs)

	for i, rec := range recs {
		rep.Processed++
		res := results[i]
		if err := s.Records.SaveAnalysis(ctx, rec.ID, res); err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Sprintf("record %d: %v", rec.ID, err))
			slog.ErrorContext(ctx, "save analysis", "record", rec.ID, "err", err)
			continue
		}
		rep.Succeeded++
		rep.AnalysisMethods[res.Method]++
	}

	elapsed := s.now().Sub(start).Seconds()
	rep.TotalSeconds = elapsed
	if rep.Processed > 0 {
		rep.AvgSecondsPerRecord = elapsed / float64(rep.Processed)
	}
	if elapsed > 0 {
		rep.RecordsPerSecond = float64(rep.Processed) / elapsed
	}
	rep.CacheCompacted = s.CompactCache()

	if s.Reports != nil && rep.Processed > 0 {
		key := fmt.Sprintf("backfill/%s/%s.json", start.UTC().Format("2006-01-02"), rep.ID)
		url, err := s.Reports.PutJSON(ctx, key, rep)
		if err != nil {
			slog.WarnContext(ctx, "archive backfill report", "key", key, "err", err)
		} else {
			rep.ReportURL = url
		}
	}

	slog.InfoContext(ctx, "backfill finished",
		"id", rep.ID, "processed", rep.Processed, "succeeded", rep.Succeeded,
		"failed", rep.Failed, "seconds", rep.TotalSeconds)
	return rep, nil
}

// ListRecords pages through stored records, newest first.
func (s *Service) ListRecords(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if s.Records == nil {
		return nil, ErrNoRecordStore
	}
	return s.Records.Paginate(ctx, page, pageSize)
}
