package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"

	appanalysis "github.com/bryanwahyu/automaton-pricing/internal/application/analysis"
)

// Schedule registers cache compaction and backfill jobs. Empty specs disable a job.
// Specs are standard 5-field cron expressions, e.g. "*/15 * * * *".
func (a *App) Schedule(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	sched := a.Config.Schedule

	if spec := strings.TrimSpace(sched.Compact); spec != "" {
		if _, err := c.AddFunc(spec, func() { a.Service.CompactCache() }); err != nil {
			return nil, fmt.Errorf("schedule.compact %q: %w", spec, err)
		}
		slog.InfoContext(ctx, "cache compaction scheduled", "cron", spec)
	}

	if spec := strings.TrimSpace(sched.Backfill); spec != "" {
		limit := sched.BackfillLimit
		_, err := c.AddFunc(spec, func() {
			rep, err := a.Service.Backfill(ctx, limit)
			switch {
			case errors.Is(err, appanalysis.ErrNoRecordStore):
				slog.WarnContext(ctx, "scheduled backfill skipped, no database configured")
			case err != nil:
				slog.ErrorContext(ctx, "scheduled backfill failed", "err", err)
			default:
				slog.InfoContext(ctx, "scheduled backfill done", "processed", rep.Processed, "failed", rep.Failed)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule.backfill %q: %w", spec, err)
		}
		slog.InfoContext(ctx, "backfill scheduled", "cron", spec, "limit", limit)
	}
	return c, nil
}
