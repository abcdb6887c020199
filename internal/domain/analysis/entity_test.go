package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompleteFillsSentinels(t *testing.T) {
	r := Result{EstimatedPrice: "$10.00"}.Complete()

	require.Equal(t, "$10.00", r.EstimatedPrice)
	require.Equal(t, NotClassified, r.Module)
	require.Equal(t, NotSpecified, r.CommercialTerms.SetupFee)
	require.Equal(t, NotSpecified, r.CommercialTerms.ContractTerms)
	require.Equal(t, ConfidenceLow, r.Confidence)
	require.Equal(t, MethodBasic, r.Method)
}

func TestFallbackIsComplete(t *testing.T) {
	require.Equal(t, Fallback(), Fallback().Complete())
}

func TestConfidenceFromScore(t *testing.T) {
	cases := []struct {
		score float64
		want  Confidence
	}{
		{0, ConfidenceLow},
		{0.2, ConfidenceMedium},
		{0.5, ConfidenceMedium},
		{0.51, ConfidenceHigh},
		{1, ConfidenceHigh},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ConfidenceFromScore(tc.score), "score %v", tc.score)
	}
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindOK, KindOf(nil))
	require.Equal(t, KindTimeout, KindOf(fmt.Errorf("openai: %w", ErrTimeout)))
	require.Equal(t, KindParse, KindOf(fmt.Errorf("decode: %w", ErrParse)))
	require.Equal(t, KindQuota, KindOf(ErrQuotaExceeded))
	require.Equal(t, KindUnknown, KindOf(context.Canceled))
	require.Equal(t, KindUnknown, KindOf(errors.New("boom")))
}

func TestCacheKeySeparatesSource(t *testing.T) {
	require.Equal(t, CacheKey("a", "b"), CacheKey("a", "b"))
	require.NotEqual(t, CacheKey("ab", ""), CacheKey("a", "b"))
}
