package model

import (
	"github.com/cloudwego/eino/schema"
)

// ExtraUsageCost and ExtraTurnCostUSD are the schema.Message Extra keys the
// response node writes usage accounting under.
const (
	ExtraUsageCost   = "usage_cost"
	ExtraTurnCostUSD = "usage_cost_total_usd"
)

// Pricing is the USD price of one million text tokens.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// Gemini list prices, standard tier, text.
var geminiPricing = map[string]Pricing{
	"gemini-2.5-pro":        {InputPerM: 1.25, OutputPerM: 10.00},
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
}

// ResolvePricing returns the price list entry for a model; models without
// one are treated as free.
func ResolvePricing(modelName string) Pricing {
	return geminiPricing[modelName]
}

// UsageCost is the priced token usage of a single model call.
type UsageCost struct {
	Currency         string  `json:"currency"`
	Model            string  `json:"model"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	InputCost        float64 `json:"input_cost"`
	OutputCost       float64 `json:"output_cost"`
	TotalCost        float64 `json:"total_cost"`
}

// PriceUsage prices usage for modelName. A nil usage costs nothing.
func PriceUsage(modelName string, usage *schema.TokenUsage) UsageCost {
	c := UsageCost{Currency: "USD", Model: modelName}
	if usage == nil {
		return c
	}
	c.PromptTokens = usage.PromptTokens
	c.CompletionTokens = usage.CompletionTokens
	c.TotalTokens = usage.TotalTokens
	c.InputCost, c.OutputCost, c.TotalCost = ComputeCost(usage, ResolvePricing(modelName))
	return c
}

// ComputeCost converts token usage to USD.
func ComputeCost(usage *schema.TokenUsage, p Pricing) (inputCost, outputCost, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	inputCost = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}
