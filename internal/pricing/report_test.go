package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	rep := Inspect("Setup fee: $50,000. Monthly cost of $5,000 per month.")

	require.True(t, rep.Found)
	require.Equal(t, "$50,000", rep.Price)
	require.Equal(t, "USD", rep.Currency)
	require.Equal(t, "$50,000", rep.Terms.SetupFee)
	require.Equal(t, "$5,000", rep.Terms.MonthlyCost)
	require.Contains(t, rep.Candidates, "$5,000")
	require.True(t, rep.Validation.IsValid)
	require.Equal(t, "USD", rep.Metadata.Currency)
	require.Equal(t, "web", rep.Metadata.SourceType)
	require.InDelta(t, 0.4, rep.Metadata.Confidence, 1e-9)
}

func TestInspectNothing(t *testing.T) {
	rep := Inspect("contact sales for a quote")

	require.False(t, rep.Found)
	require.Nil(t, rep.Range)
	require.Empty(t, rep.Candidates)
	require.Equal(t, []string{"no price found"}, rep.Validation.Issues)
}
