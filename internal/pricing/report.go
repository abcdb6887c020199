package pricing

// Report is everything the extractor can say about a single text.
type Report struct {
	Price      string     `json:"price,omitempty"`
	Found      bool       `json:"found"`
	Range      *Range     `json:"range,omitempty"`
	Currency   string     `json:"currency,omitempty"`
	Terms      Terms      `json:"terms"`
	Candidates []string   `json:"candidates,omitempty"`
	Validation Validation `json:"validation"`
	Metadata   Metadata   `json:"metadata"`
}

// Inspect runs every extractor over text and validates the chosen price.
func Inspect(text string) Report {
	var rep Report
	rep.Price, rep.Found = Extract(text)
	if r, ok := ExtractRange(text); ok {
		rep.Range = &r
	}
	rep.Currency = ExtractCurrency(text)
	rep.Terms = ExtractTerms(text)
	for _, c := range Candidates(text) {
		rep.Candidates = append(rep.Candidates, NormalizePrice(c.Raw))
	}
	rep.Validation = Validate(text, rep.Price)
	rep.Metadata = ExtractMetadata(text)
	return rep
}
