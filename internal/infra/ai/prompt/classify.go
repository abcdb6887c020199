package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

// DefaultMaxInputChars bounds how much scraped text is sent to the model.
const DefaultMaxInputChars = 1000

// SystemPrompt fixes the analyst role for every remote call.
func SystemPrompt() string {
	return `You are an expert analyst in financial services and blockchain technology. You read text scraped from white-label fintech provider websites and extract pricing and product classification. Respond with one valid JSON object only, no commentary.`
}

// UserPrompt embeds the reply schema, the category enumeration and the
// input truncated to maxChars runes.
func UserPrompt(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxInputChars
	}
	return fmt.Sprintf(`Analyze the following text and extract the information in JSON format:

Text: %s

Respond ONLY with valid JSON using exactly this structure:
{
  "precio_estimado": "estimated price or 'No especificado'",
  "clasificacion_modulo": "one of: %s",
  "condiciones_comerciales": {
    "setup_fee": "setup cost or 'No especificado'",
    "monthly_cost": "monthly cost or 'No especificado'",
    "transaction_fees": "transaction fees or 'No especificado'",
    "minimum_requirements": "minimum requirements or 'No especificado'",
    "contract_terms": "contract terms or 'No especificado'"
  },
  "confianza_analisis": "alta, media or baja"
}`, Truncate(text, maxChars), strings.Join(domain.Categories, ", "))
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
