package analysis

import "strings"

// Sentinel values used in place of missing data so the result schema stays total.
const (
	NotSpecified  = "No especificado"
	NotClassified = "No clasificado"
	// GeneralService is the label used when a classifier ran but found no category signal.
	GeneralService = "General Service"
)

// Confidence is the display bucket for how much a result should be trusted.
type Confidence string

const (
	ConfidenceHigh   Confidence = "alta"
	ConfidenceMedium Confidence = "media"
	ConfidenceLow    Confidence = "baja"
)

// ConfidenceFromScore buckets a continuous score in [0,1].
// Scores above 0.5 are "alta", any positive score is "media", zero is "baja".
func ConfidenceFromScore(score float64) Confidence {
	switch {
	case score > 0.5:
		return ConfidenceHigh
	case score > 0:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// Method tags which cascade stage produced a result.
type Method string

const (
	MethodLocal  Method = "local_models"
	MethodRemote Method = "gpt"
	MethodBasic  Method = "basic"
	MethodCache  Method = "cache"
)

// Methods lists every method in a stable order, used for stats output.
var Methods = []Method{MethodLocal, MethodRemote, MethodBasic, MethodCache}

// Request is a single analysis submission.
type Request struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type CommercialTerms struct {
	SetupFee            string `json:"setup_fee"`
	MonthlyCost         string `json:"monthly_cost"`
	TransactionFees     string `json:"transaction_fees"`
	MinimumRequirements string `json:"minimum_requirements"`
	ContractTerms       string `json:"contract_terms"`
}

// Result is the normalized pricing and classification record.
type Result struct {
	EstimatedPrice  string          `json:"precio_estimado"`
	Module          string          `json:"clasificacion_modulo"`
	CommercialTerms CommercialTerms `json:"condiciones_comerciales"`
	Confidence      Confidence      `json:"confianza_analisis"`
	Method          Method          `json:"analysis_method"`
}

// Fallback returns the canonical all-sentinel result.
func Fallback() Result {
	return Result{
		EstimatedPrice: NotSpecified,
		Module:         NotClassified,
		CommercialTerms: CommercialTerms{
			SetupFee:            NotSpecified,
			MonthlyCost:         NotSpecified,
			TransactionFees:     NotSpecified,
			MinimumRequirements: NotSpecified,
			ContractTerms:       NotSpecified,
		},
		Confidence: ConfidenceLow,
		Method:     MethodBasic,
	}
}

// Complete fills every empty field with its sentinel.
func (r Result) Complete() Result {
	r.EstimatedPrice = orSentinel(r.EstimatedPrice, NotSpecified)
	r.Module = orSentinel(r.Module, NotClassified)
	r.CommercialTerms.SetupFee = orSentinel(r.CommercialTerms.SetupFee, NotSpecified)
	r.CommercialTerms.MonthlyCost = orSentinel(r.CommercialTerms.MonthlyCost, NotSpecified)
	r.CommercialTerms.TransactionFees = orSentinel(r.CommercialTerms.TransactionFees, NotSpecified)
	r.CommercialTerms.MinimumRequirements = orSentinel(r.CommercialTerms.MinimumRequirements, NotSpecified)
	r.CommercialTerms.ContractTerms = orSentinel(r.CommercialTerms.ContractTerms, NotSpecified)
	if !r.Confidence.Valid() {
		r.Confidence = ConfidenceLow
	}
	if r.Method == "" {
		r.Method = MethodBasic
	}
	return r
}

// IsUnset reports whether a field still holds no real value.
func IsUnset(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == NotSpecified || v == NotClassified
}

func orSentinel(v, sentinel string) string {
	if strings.TrimSpace(v) == "" {
		return sentinel
	}
	return v
}
