package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/automaton-pricing/internal/application/analysis"
	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/middleware"
	"github.com/bryanwahyu/automaton-pricing/internal/pricing"
	"github.com/bryanwahyu/automaton-pricing/internal/textproc"
)

type Options struct {
	APIKeys           map[string]string
	RequestsPerMinute int
	CORSOrigins       []string
	MaxBodyBytes      int64
	MaxBatchSize      int
	Checkers          map[string]middleware.HealthChecker
}

type Router struct {
	svc  *appanalysis.Service
	opts Options
}

func NewRouter(svc *appanalysis.Service, opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = 100
	}
	r := &Router{svc: svc, opts: opts}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(middleware.APIKeyAuth(opts.APIKeys))
		rt.Use(middleware.RateLimitMiddleware(opts.RequestsPerMinute))

		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/analyze/batch", r.wrap(r.handleAnalyzeBatch))
		rt.Get("/stats", r.wrap(r.handleStats))
		rt.Post("/cache/compact", r.wrap(r.handleCompact))
		rt.Delete("/cache", r.wrap(r.handleClearCache))
		rt.Post("/prices/extract", r.wrap(r.handleExtractPrices))
		rt.Post("/prices/compare", r.wrap(r.handleComparePrices))
		rt.Post("/embed", r.wrap(r.handleEmbed))
		rt.Post("/backfill", r.wrap(r.handleBackfill))
		rt.Get("/records", r.wrap(r.handleRecords))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks an error as the caller's fault.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func invalid(format string, args ...any) error {
	return badRequest{fmt.Errorf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		req.Body = http.MaxBytesReader(w, req.Body, r.opts.MaxBodyBytes)
		err := h(w, req)
		if err == nil {
			return
		}
		var (
			bad     badRequest
			tooBig  *http.MaxBytesError
			syntax  *json.SyntaxError
			typeErr *json.UnmarshalTypeError
		)
		switch {
		case errors.As(err, &tooBig):
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.As(err, &bad), errors.As(err, &syntax), errors.As(err, &typeErr):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrQuotaExceeded):
			http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
		case errors.Is(err, appanalysis.ErrNoRecordStore), errors.Is(err, domain.ErrUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			slog.ErrorContext(req.Context(), "request failed", "path", req.URL.Path, "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decode(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		return badRequest{fmt.Errorf("invalid JSON body: %w", err)}
	}
	return nil
}

// analyzeItem is one text submission. HTML is converted to text when Text is empty.
type analyzeItem struct {
	Text   string `json:"text"`
	HTML   string `json:"html,omitempty"`
	Source string `json:"source,omitempty"`
}

func (a analyzeItem) request() (domain.Request, error) {
	text := a.Text
	if text == "" && a.HTML != "" {
		converted, err := textproc.HTMLToText(a.HTML)
		if err != nil {
			return domain.Request{}, badRequest{err}
		}
		text = converted
	}
	text = middleware.SanitizeString(text)
	if err := middleware.ValidateText(text); err != nil {
		return domain.Request{}, badRequest{err}
	}
	source := middleware.SanitizeString(a.Source)
	if err := middleware.ValidateSource(source); err != nil {
		return domain.Request{}, badRequest{err}
	}
	return domain.Request{Text: text, Source: source}, nil
}

// POST /v1/analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body analyzeItem
	if err := decode(req, &body); err != nil {
		return err
	}
	ar, err := body.request()
	if err != nil {
		return err
	}

	res := r.svc.Analyze(req.Context(), ar.Text, ar.Source)
	middleware.IncrementAnalyses(string(res.Method), 1)
	return writeJSON(w, http.StatusOK, res)
}

// POST /v1/analyze/batch
// Body: {"items": [{"text": "...", "source": "..."}]}
func (r *Router) handleAnalyzeBatch(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Items []analyzeItem `json:"items"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateBatchSize(len(body.Items), r.opts.MaxBatchSize); err != nil {
		return badRequest{err}
	}
	// an invalid item analyzes as empty text so it yields the fallback
	// result at its index without failing its siblings
	reqs := make([]domain.Request, len(body.Items))
	for i, item := range body.Items {
		ar, err := item.request()
		if err != nil {
			slog.WarnContext(req.Context(), "batch item rejected", "index", i, "err", err)
			continue
		}
		reqs[i] = ar
	}

	results := r.svc.AnalyzeBatch(req.Context(), reqs)
	for _, res := range results {
		middleware.IncrementAnalyses(string(res.Method), 1)
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(results),
		"results": results,
	})
}

// GET /v1/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, struct {
		appanalysis.SystemStats
		Health middleware.HealthStatus `json:"health"`
	}{
		SystemStats: r.svc.SystemStats(),
		Health:      middleware.RunChecks(req.Context(), r.opts.Checkers),
	})
}

// POST /v1/cache/compact
func (r *Router) handleCompact(w http.ResponseWriter, req *http.Request) error {
	removed := r.svc.CompactCache()
	return writeJSON(w, http.StatusOK, map[string]any{
		"removed": removed,
		"size":    r.svc.Stats().CacheSize,
	})
}

// DELETE /v1/cache
func (r *Router) handleClearCache(w http.ResponseWriter, req *http.Request) error {
	r.svc.ClearCache()
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/prices/extract
func (r *Router) handleExtractPrices(w http.ResponseWriter, req *http.Request) error {
	var body analyzeItem
	if err := decode(req, &body); err != nil {
		return err
	}
	ar, err := body.request()
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, pricing.Inspect(ar.Text))
}

// POST /v1/prices/compare
// Body: {"a": {"text": "..."}, "b": {"html": "..."}, "module": "KYC/KYB"}
func (r *Router) handleComparePrices(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		A      analyzeItem `json:"a"`
		B      analyzeItem `json:"b"`
		Module string      `json:"module"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	a, err := body.A.request()
	if err != nil {
		return invalid("a: %v", err)
	}
	b, err := body.B.request()
	if err != nil {
		return invalid("b: %v", err)
	}
	return writeJSON(w, http.StatusOK, pricing.Compare(a.Text, b.Text, middleware.SanitizeString(body.Module)))
}

// POST /v1/embed
func (r *Router) handleEmbed(w http.ResponseWriter, req *http.Request) error {
	var body analyzeItem
	if err := decode(req, &body); err != nil {
		return err
	}
	ar, err := body.request()
	if err != nil {
		return err
	}
	vec, err := r.svc.Embed(req.Context(), ar.Text)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"dimension": len(vec),
		"embedding": vec,
	})
}

// POST /v1/backfill
// Body (optional): {"limit": 100}
func (r *Router) handleBackfill(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Limit int `json:"limit"`
	}
	if req.ContentLength != 0 {
		if err := decode(req, &body); err != nil {
			return err
		}
	}
	if body.Limit < 0 || body.Limit > 1000 {
		return invalid("limit must be between 0 and 1000")
	}

	rep, err := r.svc.Backfill(req.Context(), body.Limit)
	if err != nil {
		return err
	}
	for m, n := range rep.AnalysisMethods {
		middleware.IncrementAnalyses(string(m), n)
	}
	return writeJSON(w, http.StatusOK, rep)
}

// GET /v1/records?page=&page_size=
func (r *Router) handleRecords(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.svc.ListRecords(req.Context(), middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}
