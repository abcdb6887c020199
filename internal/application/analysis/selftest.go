package analysis

import (
	"context"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

// Sample is a reference text with a known provider.
type Sample struct {
	Provider string `json:"provider"`
	domain.Request
}

// Samples cover a white label offer, a per-verification KYC price and a wallet subscription.
var Samples = []Sample{
	{
		Provider: "B2Broker",
		Request: domain.Request{
			Text:   "B2Broker offers white label solutions for cryptocurrency exchanges. Setup fee starts at $50,000 with monthly maintenance costs of $5,000.",
			Source: "b2broker.com",
		},
	},
	{
		Provider: "Sumsub",
		Request: domain.Request{
			Text:   "Sumsub provides KYC verification services at $0.50 per verification. Volume discounts available for enterprise clients.",
			Source: "sumsub.com",
		},
	},
	{
		Provider: "Wallester",
		Request: domain.Request{
			Text:   "Wallester offers white label wallet solutions with monthly subscription $2,500. Includes card issuing and payment processing.",
			Source: "wallester.com",
		},
	},
}

type SampleResult struct {
	Sample
	Result domain.Result `json:"result"`
}

type SelfTestReport struct {
	Results []SampleResult `json:"results"`
	Stats   Stats          `json:"stats"`
}

// SelfTest runs the reference samples through the batch path.
func (s *Service) SelfTest(ctx context.Context) SelfTestReport {
	reqs := make([]domain.Request, len(Samples))
	for i, smp := range Samples {
		reqs[i] = smp.Request
	}
	results := s.AnalyzeBatch(ctx, reqs)

	out := SelfTestReport{Results: make([]SampleResult, len(Samples))}
	for i, smp := range Samples {
		out.Results[i] = SampleResult{Sample: smp, Result: results[i]}
	}
	out.Stats = s.Stats()
	return out
}
