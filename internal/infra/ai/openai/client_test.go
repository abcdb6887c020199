package openai

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

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test", BaseURL: srv.URL + "/v1", Temperature: 0.3, Timeout: timeout})
}

func TestClassify(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "gpt-4", body["model"])
		require.EqualValues(t, 1000, body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("```json\n{\"precio_estimado\":\"$0.50\",\"clasificacion_modulo\":\"KYC/KYB\",\"confianza_analisis\":\"media\"}\n```"))
	}, time.Second)

	res, err := c.Classify(context.Background(), "Sumsub KYC at $0.50 per verification")
	require.NoError(t, err)
	require.Equal(t, "$0.50", res.EstimatedPrice)
	require.Equal(t, "KYC/KYB", res.Module)
	require.Equal(t, domain.ConfidenceMedium, res.Confidence)
	require.Equal(t, domain.MethodRemote, res.Method)
}

func TestClassifyErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "quota",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
			},
			want: domain.ErrQuotaExceeded,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"error":{"message":"upstream","type":"server_error"}}`))
			},
			want: domain.ErrTransport,
		},
		{
			name: "unparseable reply",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(completion("I cannot help with that"))
			},
			want: domain.ErrParse,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			want: domain.ErrTimeout,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.handler, 100*time.Millisecond)
			_, err := c.Classify(context.Background(), "text")
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestReasoningModelDetection(t *testing.T) {
	require.True(t, reasoningModel("o3-mini"))
	require.True(t, reasoningModel("gpt-5"))
	require.False(t, reasoningModel("gpt-4o"))
	require.False(t, supportsJSONFormat("gpt-4"))
	require.True(t, supportsJSONFormat("gpt-4o-mini"))
}
