package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bryanwahyu/automaton-pricing/internal/textproc"
)

// Metadata is the market context of a text: LATAM country, currency and
// publication date, with a 0..1 confidence.
type Metadata struct {
	Country       string  `json:"country,omitempty"`
	Region        string  `json:"region,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
	SourceType    string  `json:"source_type"`
	Confidence    float64 `json:"confidence"`
}

// countries are matched by folded name or by the uppercase ISO code as a
// standalone token. Lowercase two-letter codes collide with ordinary words.
var countries = []struct {
	name  string
	names *regexp.Regexp
	code  *regexp.Regexp
}{
	{"México", words("mexico"), code("MX")},
	{"Argentina", words("argentina"), code("AR")},
	{"Colombia", words("colombia"), code("CO")},
	{"Chile", words("chile"), code("CL")},
	{"Perú", words("peru"), code("PE")},
	{"Uruguay", words("uruguay"), code("UY")},
	{"Paraguay", words("paraguay"), code("PY")},
	{"Bolivia", words("bolivia"), code("BO")},
	{"Ecuador", words("ecuador"), code("EC")},
	{"Venezuela", words("venezuela"), code("VE")},
	{"Guatemala", words("guatemala"), code("GT")},
	{"Honduras", words("honduras"), code("HN")},
	{"El Salvador", words("el salvador"), code("SV")},
	{"Nicaragua", words("nicaragua"), code("NI")},
	{"Costa Rica", words("costa rica"), code("CR")},
	{"Panamá", words("panama"), code("PA")},
	{"Cuba", words("cuba"), code("CU")},
	{"República Dominicana", words("republica dominicana", "dominican republic"), code("DO")},
	{"Puerto Rico", words("puerto rico"), code("PR")},
}

// marketCurrencies puts the local peso and sol codes ahead of USD, since "$"
// also prefixes peso amounts.
var marketCurrencies = []struct {
	code string
	re   *regexp.Regexp
}{
	{"MXN", words("mxn", "pesos? mexicanos?", "mexican pesos?")},
	{"ARS", words("ars", "pesos? argentinos?", "argentine pesos?")},
	{"COP", words("cop", "pesos? colombianos?", "colombian pesos?")},
	{"CLP", words("clp", "pesos? chilenos?", "chilean pesos?")},
	{"PEN", words("pen", "soles?", "peruvian soles?")},
	{"BRL", words("brl", "reais?", "brazilian reais?")},
	{"EUR", regexp.MustCompile(`€|\b(?:eur|euros?)\b`)},
	{"USD", regexp.MustCompile(`\$|\b(?:usd|dollars?|dolares?)\b`)},
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`),
	regexp.MustCompile(`\b[A-Za-z]+\s+\d{1,2},?\s+\d{4}\b`),
}

func words(alts ...string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:` + strings.Join(alts, "|") + `)\b`)
}

func code(iso string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + iso + `\b`)
}

// ExtractMetadata detects the LATAM market a text talks about.
func ExtractMetadata(text string) Metadata {
	md := Metadata{SourceType: "web"}
	folded := textproc.Fold(text)

	for _, c := range countries {
		if c.names.MatchString(folded) || c.code.MatchString(text) {
			md.Country = c.name
			md.Region = "LATAM"
			if c.name == "México" {
				md.Region = "México"
			}
			break
		}
	}
	for _, c := range marketCurrencies {
		if c.re.MatchString(folded) {
			md.Currency = c.code
			break
		}
	}
	for _, re := range datePatterns {
		if m := re.FindString(text); m != "" {
			md.PublishedDate = m
			break
		}
	}

	score := 0.0
	if md.Country != "" {
		score += 0.3
	}
	if md.Currency != "" {
		score += 0.2
	}
	if md.PublishedDate != "" {
		score += 0.1
	}
	if len(strings.TrimSpace(text)) > 200 {
		score += 0.2
	}
	if textproc.ContainsAny(folded, "price", "cost", "fee", "pricing") {
		score += 0.2
	}
	md.Confidence = min(score, 1.0)
	return md
}

// CrossReference says how likely two texts describe the same offer.
type CrossReference struct {
	SameModule   bool    `json:"same_module"`
	SamePrice    bool    `json:"same_price"`
	SameCountry  bool    `json:"same_country"`
	SameCurrency bool    `json:"same_currency"`
	Confidence   float64 `json:"confidence"`
	Method       string  `json:"validation_method"`
}

var priceTolerance = decimal.NewFromFloat(0.2)

// Compare cross-references two texts about module. Prices match exactly or
// within 20% of the larger one.
func Compare(a, b, module string) CrossReference {
	x := CrossReference{Method: "cross_reference"}

	if m := textproc.Fold(strings.TrimSpace(module)); m != "" {
		if strings.Contains(textproc.Fold(a), m) && strings.Contains(textproc.Fold(b), m) {
			x.SameModule = true
			x.Confidence += 0.3
		}
	}

	pa, okA := Extract(a)
	pb, okB := Extract(b)
	if okA && okB {
		switch {
		case pa == pb:
			x.SamePrice = true
			x.Confidence += 0.4
		case closeAmounts(pa, pb):
			x.SamePrice = true
			x.Confidence += 0.3
		}
	}

	ma, mb := ExtractMetadata(a), ExtractMetadata(b)
	if ma.Country != "" && ma.Country == mb.Country {
		x.SameCountry = true
		x.Confidence += 0.2
	}
	if ma.Currency != "" && ma.Currency == mb.Currency {
		x.SameCurrency = true
		x.Confidence += 0.1
	}
	x.Confidence = min(x.Confidence, 1.0)
	return x
}

func closeAmounts(a, b string) bool {
	va, okA := ParseAmount(a)
	vb, okB := ParseAmount(b)
	if !okA || !okB {
		return false
	}
	hi := decimal.Max(va, vb)
	if !hi.IsPositive() {
		return false
	}
	return va.Sub(vb).Abs().Div(hi).LessThan(priceTolerance)
}
