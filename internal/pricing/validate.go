package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var validationKeywords = []string{"price", "cost", "fee", "charge", "setup", "monthly"}

// Validation describes how trustworthy an extracted price is.
type Validation struct {
	IsValid     bool     `json:"is_valid"`
	Confidence  float64  `json:"confidence"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// Validate scores price against text: 0.2 per pricing keyword present, capped at 1.
// The price is valid when it has no structural issues and confidence exceeds 0.3.
func Validate(text, price string) Validation {
	v := Validation{Issues: []string{}, Suggestions: []string{}}
	if strings.TrimSpace(price) == "" {
		v.Issues = append(v.Issues, "no price found")
		return v
	}
	value, ok := ParseAmount(price)
	if !ok {
		v.Issues = append(v.Issues, "price is not numeric: "+price)
		return v
	}

	if !value.IsPositive() {
		v.Issues = append(v.Issues, "price must be greater than 0")
	}
	if value.GreaterThan(maxPlausible) {
		v.Issues = append(v.Issues, "price looks too high")
	}

	lower := strings.ToLower(text)
	score := 0.0
	for _, k := range validationKeywords {
		if strings.Contains(lower, k) {
			score += 0.2
		}
	}
	v.Confidence = min(score, 1.0)
	v.IsValid = len(v.Issues) == 0 && v.Confidence > 0.3

	if v.Confidence < 0.5 {
		v.Suggestions = append(v.Suggestions, "review the surrounding context of the price")
	}
	if value.LessThan(decimal.NewFromInt(1)) {
		v.Suggestions = append(v.Suggestions, "check that the price is in the expected currency")
	}
	return v
}
