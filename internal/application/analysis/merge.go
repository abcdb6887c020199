package analysis

import (
	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/pricing"
	"github.com/bryanwahyu/automaton-pricing/internal/textproc"
)

// moduleRules drive keyword module detection, checked in order.
var moduleRules = []struct {
	module   string
	keywords []string
}{
	{"Wallet Base", []string{"wallet", "crypto"}},
	{"KYC/KYB", []string{"kyc", "kyb", "verification"}},
	{"Trading Platform", []string{"trading", "exchange"}},
	{"Payment Gateway", []string{"payment", "gateway"}},
	{"White Label Solution", []string{"white label", "whitelabel"}},
}

// detectModule returns the first module whose keywords appear in text, or "".
func detectModule(text string) string {
	folded := textproc.Fold(text)
	for _, rule := range moduleRules {
		if textproc.ContainsAny(folded, rule.keywords...) {
			return rule.module
		}
	}
	return ""
}

// merge fills every unresolved field of partial from the price extractor and
// keyword module detection, then completes the remaining sentinels.
func merge(text string, partial domain.Result) domain.Result {
	r := partial
	if domain.IsUnset(r.EstimatedPrice) {
		if p, ok := pricing.Extract(text); ok {
			r.EstimatedPrice = p
		}
	}
	if domain.IsUnset(r.Module) {
		r.Module = detectModule(text)
	}

	terms := pricing.ExtractTerms(text)
	ct := &r.CommercialTerms
	fill(&ct.SetupFee, terms.SetupFee)
	fill(&ct.MonthlyCost, terms.MonthlyCost)
	fill(&ct.TransactionFees, terms.TransactionFees)
	fill(&ct.MinimumRequirements, terms.MinimumRequirements)
	fill(&ct.ContractTerms, terms.ContractTerms)
	if terms.AnnualCost != "" {
		fill(&ct.ContractTerms, "annual "+terms.AnnualCost)
	}
	return r.Complete()
}

func fill(field *string, v string) {
	if domain.IsUnset(*field) && v != "" {
		*field = v
	}
}

// basic is the last cascade stage. It always succeeds with low confidence.
func basic(text string) domain.Result {
	module := detectModule(text)
	if module == "" {
		module = domain.GeneralService
	}
	r := merge(text, domain.Result{
		Module:     module,
		Confidence: domain.ConfidenceLow,
		Method:     domain.MethodBasic,
	})

	// terms that are mentioned without an amount
	folded := textproc.Fold(text)
	ct := &r.CommercialTerms
	mentioned := func(field *string, words ...string) {
		if !domain.IsUnset(*field) {
			return
		}
		for _, w := range words {
			if !textproc.ContainsAny(folded, w) {
				return
			}
		}
		*field = "Mencionado"
	}
	mentioned(&ct.SetupFee, "setup", "fee")
	mentioned(&ct.MonthlyCost, "monthly", "cost")
	mentioned(&ct.TransactionFees, "transaction", "fee")
	return r
}
