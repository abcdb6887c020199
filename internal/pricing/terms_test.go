package pricing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExtractTermsRoundTrip(t *testing.T) {
	text := "Setup fee: $50,000 with monthly cost of $5,000"

	price, ok := Extract(text)
	require.True(t, ok)
	require.NotEmpty(t, price)

	terms := ExtractTerms(text)
	require.Equal(t, "$50,000", terms.SetupFee)
	v, ok := ParseAmount(terms.SetupFee)
	require.True(t, ok)
	require.Equal(t, int64(50000), v.IntPart())
	require.Equal(t, "$5,000", terms.MonthlyCost)
}

func TestExtractTerms(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Terms
	}{
		{
			name: "empty",
			text: "",
			want: Terms{},
		},
		{
			name: "white label offer",
			text: "B2Broker offers white label solutions. Setup fee starts at $50,000 with monthly maintenance costs of $5,000.",
			want: Terms{SetupFee: "$50,000", MonthlyCost: "$5,000", BillingCycle: "monthly", Currency: "USD"},
		},
		{
			name: "per verification",
			text: "Sumsub provides KYC verification services at $0.50 per verification.",
			want: Terms{TransactionFees: "$0.50", Currency: "USD"},
		},
		{
			name: "percentage fee",
			text: "Transaction fee: 1.5% with annual license fee of €12,000",
			want: Terms{AnnualCost: "$12,000", TransactionFees: "1.5%", BillingCycle: "annual", Currency: "EUR"},
		},
		{
			name: "minimum and contract",
			text: "Minimum deposit of $10,000 and a 12 month contract, billed quarterly",
			want: Terms{MinimumRequirements: "minimum $10,000", ContractTerms: "12 month", BillingCycle: "quarterly", Currency: "USD"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, ExtractTerms(tc.text)); diff != "" {
				t.Errorf("ExtractTerms() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	v := Validate("Setup fee with monthly cost", "$50,000")
	require.True(t, v.IsValid)
	require.InDelta(t, 0.8, v.Confidence, 1e-9)
	require.Empty(t, v.Issues)

	v = Validate("some text", "$2,000,000")
	require.False(t, v.IsValid)
	require.Contains(t, v.Issues, "price looks too high")
	require.NotEmpty(t, v.Suggestions)

	v = Validate("price", "$0.50")
	require.False(t, v.IsValid)
	require.InDelta(t, 0.2, v.Confidence, 1e-9)
	require.Len(t, v.Suggestions, 2)

	v = Validate("price cost fee charge setup monthly", "$10")
	require.InDelta(t, 1.0, v.Confidence, 1e-9)

	v = Validate("anything", "")
	require.False(t, v.IsValid)
	require.Equal(t, []string{"no price found"}, v.Issues)
}
