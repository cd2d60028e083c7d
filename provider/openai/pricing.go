package openai

import ai "github.com/archestra-ai/secure-agent"

// Pricing contains pricing per million tokens (USD).
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

var pricing = map[ChatModel]Pricing{
	GPT4o:     {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	GPT4oMini: {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	GPT41:     {InputPerMillion: 2.00, OutputPerMillion: 8.00},
	GPT41Mini: {InputPerMillion: 0.40, OutputPerMillion: 1.60},
	O4Mini:    {InputPerMillion: 1.10, OutputPerMillion: 4.40},
}

// Pricing returns the list price of the model. ok is false for models
// without a known price, such as fine-tunes or models served by a proxy
// under a different name.
func (m ChatModel) Pricing() (p Pricing, ok bool) {
	p, ok = pricing[m]
	return p, ok
}

// Cost estimates the USD cost of usage at the model's list price.
// Unknown models cost zero.
func (m ChatModel) Cost(usage ai.Usage) float64 {
	p, ok := m.Pricing()
	if !ok {
		return 0
	}
	return CalculateCost(usage, p)
}

// CalculateCost computes the cost of usage under the given pricing.
func CalculateCost(usage ai.Usage, p Pricing) float64 {
	input := float64(usage.InputTokens) / 1_000_000 * p.InputPerMillion
	output := float64(usage.OutputTokens) / 1_000_000 * p.OutputPerMillion
	return input + output
}
