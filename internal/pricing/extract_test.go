package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"empty", "", "", false},
		{"no numbers", "We offer wallets for everyone", "", false},
		{"dollar symbol", "Plans start at $99 per user", "$99.00", true},
		{"thousands grouping", "Setup fee: $50,000 with monthly cost of $5,000", "$50,000", true},
		{"euro code", "License price EUR 1200", "$1,200", true},
		{"word suffix", "only 250 dollars for the starter plan", "$250.00", true},
		{"keyword adjacent", "The integration fee: 300", "$300.00", true},
		{"large number fallback", "Reference 123456 for support", "$123,456", true},
		{"implausible skipped", "$5,000,000 valuation, plan price $200", "$200.00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Extract(tc.text)
			require.Equal(t, tc.found, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExtractPrefersPricingContext(t *testing.T) {
	// the first amount has no pricing words nearby and is out of range
	text := "Founded with $2000000 in funding. " +
		"Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor. " +
		"The setup fee is $750."
	got, ok := Extract(text)
	require.True(t, ok)
	require.Equal(t, "$750.00", got)
}

func TestCandidatesKeepPriorityOrder(t *testing.T) {
	cands := Candidates("Setup fee $50,000 and 100 euros monthly")
	require.NotEmpty(t, cands)
	require.Equal(t, "50000", cands[0].Raw)
	require.Equal(t, "100", cands[1].Raw)
}

func TestNormalizePrice(t *testing.T) {
	require.Equal(t, "$50,000", NormalizePrice("50000"))
	require.Equal(t, "$1,000", NormalizePrice("$1,000.00"))
	require.Equal(t, "$999.50", NormalizePrice("999.5"))
	require.Equal(t, "$0.50", NormalizePrice("0.5"))
	require.Equal(t, "abc", NormalizePrice("abc"))
	require.Equal(t, "", NormalizePrice(""))
}

func TestNormalizePriceBeyondInt64(t *testing.T) {
	require.Equal(t, "$99,999,999,999,999,999,999", NormalizePrice("99999999999999999999"))
	require.Equal(t, "$9,223,372,036,854,775,808", NormalizePrice("9223372036854775808"))

	price, ok := Extract("Total: $99999999999999999999")
	require.True(t, ok)
	require.Equal(t, "$99,999,999,999,999,999,999", price)
}

func TestExtractRange(t *testing.T) {
	cases := []struct {
		text string
		want Range
	}{
		{"Pricing $1,000 - $5,000 per month", Range{"$1,000", "$5,000"}},
		{"plans from 200 to 800", Range{"$200.00", "$800.00"}},
		{"between 10 and 20 per seat", Range{"$10.00", "$20.00"}},
	}
	for _, tc := range cases {
		got, ok := ExtractRange(tc.text)
		require.True(t, ok, tc.text)
		require.Equal(t, tc.want, got, tc.text)
	}

	_, ok := ExtractRange("no range here")
	require.False(t, ok)
}

func TestExtractCurrency(t *testing.T) {
	require.Equal(t, "USD", ExtractCurrency("costs $10"))
	require.Equal(t, "EUR", ExtractCurrency("only 10 euros"))
	require.Equal(t, "GBP", ExtractCurrency("£20 a month"))
	require.Equal(t, "JPY", ExtractCurrency("price in JPY"))
	require.Equal(t, "", ExtractCurrency("free forever"))
}
