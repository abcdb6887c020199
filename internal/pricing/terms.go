package pricing

import (
	"regexp"
	"strings"

	"github.com/bryanwahyu/automaton-pricing/internal/textproc"
)

// lead matches the connectors allowed between a term keyword and its amount,
// e.g. "setup fee: $", "monthly cost of $", "setup fee starts at $".
const lead = `(?:\s*(?:[:\-]|starts?\s+(?:at|from)|starting\s+(?:at|from)|of|from|is|at))*\s*(?:[$€£¥]|usd|eur|gbp)?\s*`

var (
	setupPatterns = []*regexp.Regexp{
		regexp.MustCompile(`setup\s*(?:fee|cost)s?` + lead + num),
		regexp.MustCompile(num + `\s*setup`),
		regexp.MustCompile(`one.?time\s*(?:fee|cost)s?` + lead + num),
	}
	monthlyPatterns = []*regexp.Regexp{
		regexp.MustCompile(num + `\s*per\s*month`),
		regexp.MustCompile(num + `\s*monthly`),
		regexp.MustCompile(`monthly\s*(?:maintenance\s*|subscription\s*|license\s*)?(?:cost|fee|charge|price)s?` + lead + num),
		regexp.MustCompile(`monthly\s*subscription` + lead + num),
	}
	annualPatterns = []*regexp.Regexp{
		regexp.MustCompile(num + `\s*per\s*year`),
		regexp.MustCompile(num + `\s*annual`),
		regexp.MustCompile(`annual\s*(?:license\s*|subscription\s*)?(?:cost|fee|charge|license|subscription)s?` + lead + num),
	}
	percentTxPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+(?:\.\d+)?%)\s*per\s*transaction`),
		regexp.MustCompile(`transaction\s*fees?` + lead + `(\d+(?:\.\d+)?%)`),
	}
	flatTxPatterns = []*regexp.Regexp{
		regexp.MustCompile(num + `\s*per\s*(?:transaction|verification|check)`),
		regexp.MustCompile(`transaction\s*fees?` + lead + num),
	}
	minimumPatterns = []*regexp.Regexp{
		regexp.MustCompile(`minimum\s*(?:monthly\s*)?(?:volume|deposit|commitment|order|balance|spend)` + lead + num),
	}
	contractPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+\s*(?:months?|years?))\s*(?:minimum\s*)?(?:contract|commitment|term)`),
		regexp.MustCompile(`(?:contract|commitment)\s*(?:term\s*)?(?:of\s*)?(\d+\s*(?:months?|years?))`),
	}
)

// Terms holds commercial terms found in text. Fields that were not found are empty.
type Terms struct {
	SetupFee            string `json:"setup_fee,omitempty"`
	MonthlyCost         string `json:"monthly_cost,omitempty"`
	AnnualCost          string `json:"annual_cost,omitempty"`
	TransactionFees     string `json:"transaction_fees,omitempty"`
	MinimumRequirements string `json:"minimum_requirements,omitempty"`
	ContractTerms       string `json:"contract_terms,omitempty"`
	BillingCycle        string `json:"billing_cycle,omitempty"`
	Currency            string `json:"currency,omitempty"`
}

// ExtractTerms looks for each commercial term with its own small pattern set.
func ExtractTerms(text string) Terms {
	clean := strings.ToLower(textproc.Normalize(text))
	if clean == "" {
		return Terms{}
	}
	t := Terms{
		SetupFee:    firstPrice(clean, setupPatterns),
		MonthlyCost: firstPrice(clean, monthlyPatterns),
		AnnualCost:  firstPrice(clean, annualPatterns),
		Currency:    ExtractCurrency(text),
	}

	if m := firstMatch(clean, percentTxPatterns); m != "" {
		t.TransactionFees = m
	} else if m := firstMatch(clean, flatTxPatterns); m != "" {
		t.TransactionFees = NormalizePrice(m)
	}
	if m := firstMatch(clean, minimumPatterns); m != "" {
		t.MinimumRequirements = "minimum " + NormalizePrice(m)
	}
	t.ContractTerms = firstMatch(clean, contractPatterns)

	switch {
	case textproc.ContainsAny(clean, "monthly", "per month"):
		t.BillingCycle = "monthly"
	case textproc.ContainsAny(clean, "annual", "yearly", "per year"):
		t.BillingCycle = "annual"
	case textproc.ContainsAny(clean, "quarterly", "per quarter"):
		t.BillingCycle = "quarterly"
	}
	return t
}

func firstMatch(clean string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(clean); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func firstPrice(clean string, patterns []*regexp.Regexp) string {
	if m := firstMatch(clean, patterns); m != "" {
		return NormalizePrice(m)
	}
	return ""
}
