package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

func TestClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_1",
			"type":          "message",
			"role":          "assistant",
			"model":         "claude-test",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content": []map[string]any{{
				"type": "text",
				"text": `{"precio_estimado":"$2,500","clasificacion_modulo":"Wallet Base","condiciones_comerciales":{"monthly_cost":"$2,500"},"confianza_analisis":"alta"}`,
			}},
			"usage": map[string]any{"input_tokens": 10, "output_tokens": 20},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test", BaseURL: srv.URL, Model: "claude-test", Timeout: time.Second})
	res, err := c.Classify(context.Background(), "Wallester wallet")
	require.NoError(t, err)
	require.Equal(t, "Wallet Base", res.Module)
	require.Equal(t, "$2,500", res.CommercialTerms.MonthlyCost)
	require.Equal(t, domain.ConfidenceHigh, res.Confidence)
}

func TestClassifyRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test", BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.Classify(context.Background(), "x")
	require.True(t, errors.Is(err, domain.ErrQuotaExceeded), "got %v", err)
}
