// Package keyword implements the in-process module classifier: each category
// is scored by the fraction of its keywords found in the text.
package keyword

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/semaphore"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/textproc"
)

const maxWorkers = 4

type Options struct {
	// CategoriesFile is optional; DefaultCategories are used when empty.
	CategoriesFile string
	// Workers bounds concurrent inference. Zero means min(4, NumCPU).
	Workers  int
	Embedder domain.Embedder
}

type Classifier struct {
	categories []Category
	sem        *semaphore.Weighted
	workers    int
	embedder   domain.Embedder
	source     string
	loadErr    error
}

// New builds a classifier. A categories file that cannot be loaded does not
// fail construction: every Classify call then reports ErrUnavailable.
func New(opts Options) *Classifier {
	workers := opts.Workers
	if workers <= 0 {
		workers = min(maxWorkers, runtime.NumCPU())
	}
	c := &Classifier{
		sem:      semaphore.NewWeighted(int64(workers)),
		workers:  workers,
		embedder: opts.Embedder,
		source:   "builtin",
	}

	cats := DefaultCategories
	if opts.CategoriesFile != "" {
		loaded, err := LoadCategories(opts.CategoriesFile)
		if err != nil {
			slog.Error("keyword classifier: categories not loaded", "file", opts.CategoriesFile, "err", err)
			c.loadErr = err
			return c
		}
		cats = loaded
		c.source = opts.CategoriesFile
	}
	c.categories = folded(cats)
	return c
}

// Classify scores text against every category and returns the best match.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.LocalResult, error) {
	if c.loadErr != nil {
		return domain.LocalResult{}, fmt.Errorf("keyword classifier: %w: %v", domain.ErrUnavailable, c.loadErr)
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return domain.LocalResult{}, fmt.Errorf("keyword classifier: %w: %v", domain.ErrTimeout, err)
	}
	defer c.sem.Release(1)

	return c.score(textproc.Fold(text)), nil
}

func (c *Classifier) score(text string) domain.LocalResult {
	res := domain.LocalResult{
		Module: domain.GeneralService,
		Scores: make(map[string]float64, len(c.categories)),
	}
	best := -1
	for i, cat := range c.categories {
		found := 0
		for _, k := range cat.Keywords {
			if strings.Contains(text, k) {
				found++
			}
		}
		s := float64(found) / float64(len(cat.Keywords))
		res.Scores[cat.Name] = s
		// strict comparison keeps the earliest declared category on ties
		if s > 0 && (best < 0 || s > res.Score) {
			best = i
			res.Score = s
			res.Module = cat.Name
		}
	}
	if res.Score > 0.5 {
		res.Confidence = domain.ConfidenceHigh
	} else {
		res.Confidence = domain.ConfidenceMedium
	}
	return res
}

// Embed delegates to the configured embedder.
func (c *Classifier) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.embedder == nil {
		return nil, fmt.Errorf("keyword classifier: %w: no embedder configured", domain.ErrUnavailable)
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("keyword classifier: %w: %v", domain.ErrTimeout, err)
	}
	defer c.sem.Release(1)
	return c.embedder.Embed(ctx, text)
}

func (c *Classifier) Info() domain.ModelInfo {
	models := []string{"keyword-scorer"}
	if n, ok := c.embedder.(interface{ Name() string }); ok {
		models = append(models, n.Name())
	}
	return domain.ModelInfo{
		Device:       fmt.Sprintf("cpu (%d workers)", c.workers),
		ModelsLoaded: models,
		Directory:    c.source,
	}
}
