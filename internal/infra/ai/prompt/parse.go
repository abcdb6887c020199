package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

type reply struct {
	EstimatedPrice  any            `json:"precio_estimado"`
	Module          any            `json:"clasificacion_modulo"`
	CommercialTerms map[string]any `json:"condiciones_comerciales"`
	Confidence      any            `json:"confianza_analisis"`
}

// StripFence removes a surrounding ``` or ```json markdown fence.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.HasPrefix(strings.TrimSpace(s[:i]), "{") {
		// drop the language tag line
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseReply decodes a model reply into a partial result tagged as remote.
// Malformed replies wrap domain.ErrParse.
func ParseReply(raw string) (domain.Result, error) {
	body := StripFence(raw)
	if !strings.HasPrefix(body, "{") {
		start, end := strings.IndexByte(body, '{'), strings.LastIndexByte(body, '}')
		if start < 0 || end <= start {
			return domain.Result{}, fmt.Errorf("%w: no json object in reply", domain.ErrParse)
		}
		body = body[start : end+1]
	}

	var rep reply
	if err := json.Unmarshal([]byte(body), &rep); err != nil {
		return domain.Result{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	terms := rep.CommercialTerms
	return domain.Result{
		EstimatedPrice: str(rep.EstimatedPrice),
		Module:         str(rep.Module),
		CommercialTerms: domain.CommercialTerms{
			SetupFee:            str(terms["setup_fee"]),
			MonthlyCost:         str(terms["monthly_cost"]),
			TransactionFees:     str(terms["transaction_fees"]),
			MinimumRequirements: str(terms["minimum_requirements"]),
			ContractTerms:       str(terms["contract_terms"]),
		},
		Confidence: confidence(str(rep.Confidence)),
		Method:     domain.MethodRemote,
	}, nil
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func confidence(s string) domain.Confidence {
	switch strings.ToLower(s) {
	case "alta", "high":
		return domain.ConfidenceHigh
	case "media", "medium":
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
