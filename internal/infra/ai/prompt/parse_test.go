package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

const sampleReply = `{
  "precio_estimado": "$50,000",
  "clasificacion_modulo": "White Label Solution",
  "condiciones_comerciales": {
    "setup_fee": "$50,000",
    "monthly_cost": 5000,
    "transaction_fees": null,
    "minimum_requirements": "No especificado",
    "contract_terms": "12 months"
  },
  "confianza_analisis": "alta"
}`

func TestParseReply(t *testing.T) {
	want := domain.Result{
		EstimatedPrice: "$50,000",
		Module:         "White Label Solution",
		CommercialTerms: domain.CommercialTerms{
			SetupFee:            "$50,000",
			MonthlyCost:         "5000",
			MinimumRequirements: domain.NotSpecified,
			ContractTerms:       "12 months",
		},
		Confidence: domain.ConfidenceHigh,
		Method:     domain.MethodRemote,
	}

	for name, raw := range map[string]string{
		"plain":         sampleReply,
		"json fence":    "```json\n" + sampleReply + "\n```",
		"bare fence":    "```\n" + sampleReply + "\n```",
		"inline fence":  "```" + sampleReply + "```",
		"with preamble": "Here is the analysis:\n" + sampleReply,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := ParseReply(raw)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("ParseReply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseReplyErrors(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "```json\n{\"precio_estimado\": \n```"} {
		_, err := ParseReply(raw)
		require.True(t, errors.Is(err, domain.ErrParse), "raw %q: %v", raw, err)
	}
}

func TestConfidenceMapping(t *testing.T) {
	require.Equal(t, domain.ConfidenceHigh, confidence("High"))
	require.Equal(t, domain.ConfidenceMedium, confidence("media"))
	require.Equal(t, domain.ConfidenceLow, confidence(""))
}

func TestUserPromptTruncates(t *testing.T) {
	long := strings.Repeat("á", 2000)
	p := UserPrompt(long, 1000)
	require.Contains(t, p, strings.Repeat("á", 1000))
	require.NotContains(t, p, strings.Repeat("á", 1001))
	require.Contains(t, p, "White Label Solution")
	require.Contains(t, p, "condiciones_comerciales")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", Truncate("abc", 5))
	require.Equal(t, "ab", Truncate("abc", 2))
	require.Equal(t, "abc", Truncate("abc", 0))
}
