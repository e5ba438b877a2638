package model

import (
	"math"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestComputeCost(t *testing.T) {
	usage := &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 200_000}
	in, out, total := ComputeCost(usage, ResolvePricing("gemini-2.5-flash"))
	if math.Abs(in-0.30) > 1e-9 || math.Abs(out-0.50) > 1e-9 || math.Abs(total-0.80) > 1e-9 {
		t.Fatalf("ComputeCost = %v, %v, %v", in, out, total)
	}

	c := PriceUsage("gemini-2.5-flash-lite", usage)
	if c.Currency != "USD" || c.PromptTokens != 1_000_000 || math.Abs(c.TotalCost-0.18) > 1e-9 {
		t.Fatalf("PriceUsage = %+v", c)
	}
	if c := PriceUsage("gemini-2.5-pro", nil); c.TotalCost != 0 || c.Model != "gemini-2.5-pro" {
		t.Fatalf("PriceUsage(nil) = %+v", c)
	}

	if _, _, total := ComputeCost(usage, ResolvePricing("unknown-model")); total != 0 {
		t.Fatalf("unknown model cost = %v, want 0", total)
	}
	if _, _, total := ComputeCost(nil, ResolvePricing("gemini-2.5-pro")); total != 0 {
		t.Fatalf("nil usage cost = %v, want 0", total)
	}
}
