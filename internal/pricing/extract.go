// Package pricing finds monetary amounts and commercial terms in scraped text.
package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bryanwahyu/automaton-pricing/internal/textproc"
)

const num = `(\d+(?:,\d{3})*(?:\.\d+)?)`

// Price families in priority order. Every match of every family becomes a candidate.
var priceFamilies = [][]*regexp.Regexp{
	// currency symbol or code prefixed, word suffixed
	{
		regexp.MustCompile(`\$\s*` + num),
		regexp.MustCompile(`(?i)\bUSD\s*` + num),
		regexp.MustCompile(`(?i)` + num + `\s*dollars?\b`),
	},
	{
		regexp.MustCompile(`€\s*` + num),
		regexp.MustCompile(`(?i)\bEUR\s*` + num),
		regexp.MustCompile(`(?i)` + num + `\s*euros?\b`),
	},
	{
		regexp.MustCompile(`£\s*` + num),
		regexp.MustCompile(`(?i)\bGBP\s*` + num),
		regexp.MustCompile(`(?i)` + num + `\s*pounds?\b`),
	},
	{
		regexp.MustCompile(`¥\s*` + num),
		regexp.MustCompile(`(?i)\bJPY\s*` + num),
	},
	// keyword adjacent
	{
		regexp.MustCompile(`(?i)` + num + `\s*(?:price|cost|fee|charge)`),
		regexp.MustCompile(`(?i)(?:price|cost|fee|charge)\s*[:\-]?\s*` + num),
	},
	// ranges
	{
		regexp.MustCompile(num + `\s*-\s*` + num),
		regexp.MustCompile(`(?i)from\s*` + num + `\s*to\s*` + num),
	},
	// per period
	{
		regexp.MustCompile(`(?i)` + num + `\s*per\s*(?:month|year|annum)`),
		regexp.MustCompile(`(?i)` + num + `\s*(?:monthly|yearly|annual)`),
	},
	// setup fee
	{
		regexp.MustCompile(`(?i)setup\s*(?:fee|cost)\s*[:\-]?\s*` + num),
		regexp.MustCompile(`(?i)` + num + `\s*setup`),
	},
}

var largeNumberRe = regexp.MustCompile(`\d{4,}(?:\.\d{1,2})?`)

// likelyKeywords mark a candidate's surroundings as pricing context.
var likelyKeywords = []string{
	"price", "cost", "fee", "charge", "setup", "monthly", "annual",
	"subscription", "license", "package", "plan", "tier",
}

const contextWindow = 60

var (
	minPlausible = decimal.NewFromInt(1)
	maxPlausible = decimal.NewFromInt(1_000_000)
)

// Candidate is one amount found in the text.
type Candidate struct {
	Raw     string
	Value   decimal.Decimal
	Context string
}

// Candidates returns every amount matched by the price families in priority
// order, or the 4+ digit numbers in the text when no family matches.
func Candidates(text string) []Candidate {
	clean := textproc.Normalize(text)
	if clean == "" {
		return nil
	}

	var out []Candidate
	for _, family := range priceFamilies {
		for _, re := range family {
			for _, m := range re.FindAllStringSubmatchIndex(clean, -1) {
				for g := 1; g*2 < len(m); g++ {
					start, end := m[g*2], m[g*2+1]
					if start < 0 {
						continue
					}
					out = appendCandidate(out, clean, start, end)
				}
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, m := range largeNumberRe.FindAllStringIndex(clean, -1) {
		out = appendCandidate(out, clean, m[0], m[1])
	}
	return out
}

func appendCandidate(out []Candidate, clean string, start, end int) []Candidate {
	raw := clean[start:end]
	v, ok := ParseAmount(raw)
	if !ok {
		return out
	}
	lo := max(0, start-contextWindow)
	hi := min(len(clean), end+contextWindow)
	return append(out, Candidate{
		Raw:     raw,
		Value:   v,
		Context: strings.ToLower(clean[lo:hi]),
	})
}

// Likely reports whether the candidate sits near a pricing keyword and its
// value is within [1, 1,000,000].
func (c Candidate) Likely() bool {
	if c.Value.LessThan(minPlausible) || c.Value.GreaterThan(maxPlausible) {
		return false
	}
	return textproc.ContainsAny(c.Context, likelyKeywords...)
}

// Extract returns the most relevant price in text, normalized by NormalizePrice.
func Extract(text string) (string, bool) {
	cands := Candidates(text)
	if len(cands) == 0 {
		return "", false
	}
	for _, c := range cands {
		if c.Likely() {
			return NormalizePrice(c.Raw), true
		}
	}
	return NormalizePrice(cands[0].Raw), true
}

// Range is a min/max price pair.
type Range struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

var rangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[$€£¥]?\s*` + num + `\s*-\s*[$€£¥]?\s*` + num),
	regexp.MustCompile(`(?i)from\s*[$€£¥]?\s*` + num + `\s*to\s*[$€£¥]?\s*` + num),
	regexp.MustCompile(`(?i)between\s*[$€£¥]?\s*` + num + `\s*and\s*[$€£¥]?\s*` + num),
	regexp.MustCompile(`(?i)[$€£¥]?\s*` + num + `\s*to\s*[$€£¥]?\s*` + num),
}

// ExtractRange finds the first price range in text.
func ExtractRange(text string) (Range, bool) {
	clean := textproc.Normalize(text)
	for _, re := range rangePatterns {
		if m := re.FindStringSubmatch(clean); m != nil {
			return Range{Min: NormalizePrice(m[1]), Max: NormalizePrice(m[2])}, true
		}
	}
	return Range{}, false
}

var currencyRules = []struct {
	code string
	re   *regexp.Regexp
}{
	{"USD", regexp.MustCompile(`(?i)\$|\bdollars?\b|\busd\b`)},
	{"EUR", regexp.MustCompile(`(?i)€|\beuros?\b|\beur\b`)},
	{"GBP", regexp.MustCompile(`(?i)£|\bpounds?\b|\bgbp\b`)},
	{"JPY", regexp.MustCompile(`(?i)¥|\byen\b|\bjpy\b`)},
}

// ExtractCurrency returns the ISO code of the first currency mentioned, or "".
func ExtractCurrency(text string) string {
	for _, rule := range currencyRules {
		if rule.re.MatchString(text) {
			return rule.code
		}
	}
	return ""
}
