package nodes

import (
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/model"
)

func TestToolLimitHelpers(t *testing.T) {
	s := &model.AppState{}
	for i := 0; i < 3; i++ {
		if incrementToolCallAndCheck(s, 3) {
			t.Fatalf("round %d flagged early", i+1)
		}
	}
	if !checkAndMarkToolLimit(s, 3) || !s.ToolCallLimitReached {
		t.Fatalf("limit not marked at 3 calls")
	}
	if checkAndMarkToolLimit(s, 3) {
		t.Fatalf("limit marked twice")
	}
	if !incrementToolCallAndCheck(s, 3) {
		t.Fatalf("fourth round should exceed")
	}
}

func TestNormalizeMaxToolCalls(t *testing.T) {
	if normalizeMaxToolCalls(0) != DefaultMaxToolCalls || normalizeMaxToolCalls(-4) != DefaultMaxToolCalls {
		t.Fatalf("non-positive limits should fall back to the default")
	}
	if normalizeMaxToolCalls(3) != 3 {
		t.Fatalf("explicit limit ignored")
	}
}

func TestFillToolCallIDs(t *testing.T) {
	history := []*schema.Message{
		schema.UserMessage("check asw1"),
		schema.AssistantMessage("", []schema.ToolCall{
			{ID: "a", Function: schema.FunctionCall{Name: "cmdb"}},
			{ID: "b", Function: schema.FunctionCall{Name: "ping"}},
		}),
	}
	in := []*schema.Message{
		schema.ToolMessage(`{"ip":"192.168.1.10"}`, ""),
		schema.ToolMessage(`{"reachable":true}`, "keep"),
	}
	fillToolCallIDs(in, history)
	if in[0].ToolCallID != "a" || in[1].ToolCallID != "keep" {
		t.Fatalf("ids = %q, %q", in[0].ToolCallID, in[1].ToolCallID)
	}
}

func TestRecordUsageCost(t *testing.T) {
	s := &model.AppState{}
	out := schema.AssistantMessage("done", nil)
	out.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{
		PromptTokens: 1_000_000, CompletionTokens: 1_000_000, TotalTokens: 2_000_000,
	}}
	recordUsageCost(out, s, "gemini-2.5-flash")
	if s.TotalCostUSD < 2.79 || s.TotalCostUSD > 2.81 {
		t.Fatalf("total cost = %v, want 2.80", s.TotalCostUSD)
	}
	if c, ok := out.Extra[model.ExtraUsageCost].(model.UsageCost); !ok || c.Model != "gemini-2.5-flash" {
		t.Fatalf("usage cost not attached: %+v", out.Extra)
	}

	bare := schema.AssistantMessage("no usage", nil)
	recordUsageCost(bare, s, "gemini-2.5-flash")
	if bare.Extra != nil {
		t.Fatalf("extra set without usage")
	}
}
