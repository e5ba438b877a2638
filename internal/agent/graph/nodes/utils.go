package nodes

import (
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/model"
	logx "github.com/netops-assistant/server/pkg/logger"
)

const DefaultMaxToolCalls = 10

// ===== Small helpers to keep handlers simple/readable =====
// normalizeMaxToolCalls returns a sane default when the provided value is invalid.
func normalizeMaxToolCalls(n int) int {
	if n <= 0 {
		return DefaultMaxToolCalls
	}
	return n
}

// checkAndMarkToolLimit evaluates whether another tool call would exceed the
// limit and, if so, marks the state accordingly. Returns true when marked now.
func checkAndMarkToolLimit(state *model.AppState, max int) bool {
	max = normalizeMaxToolCalls(max)
	if !state.ToolCallLimitReached && state.ToolCallCount >= max {
		state.ToolCallLimitReached = true
		return true
	}
	return false
}

// incrementToolCallAndCheck increments the count and marks the state if it
// exceeds the limit after incrementing. Returns true when exceeded.
func incrementToolCallAndCheck(state *model.AppState, max int) bool {
	max = normalizeMaxToolCalls(max)
	state.ToolCallCount++
	if state.ToolCallCount > max {
		state.ToolCallLimitReached = true
		return true
	}
	return false
}

// fillToolCallIDs gives tool results without an ID the ID of the matching
// call, by position, from the most recent assistant message in history.
func fillToolCallIDs(in, history []*schema.Message) {
	var calls []schema.ToolCall
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m != nil && m.Role == schema.Assistant && len(m.ToolCalls) > 0 {
			calls = m.ToolCalls
			break
		}
	}
	if len(calls) == 0 {
		return
	}
	idx := 0
	for _, m := range in {
		if m == nil || m.Role != schema.Tool {
			continue
		}
		if strings.TrimSpace(m.ToolCallID) == "" && idx < len(calls) {
			m.ToolCallID = calls[idx].ID
		}
		idx++
	}
}

// recordUsageCost prices the token usage of out, logs it, and accumulates
// the total into state.
func recordUsageCost(out *schema.Message, state *model.AppState, modelName string) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	cost := model.PriceUsage(modelName, out.ResponseMeta.Usage)
	state.TotalCostUSD += cost.TotalCost

	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	out.Extra[model.ExtraUsageCost] = cost
	out.Extra[model.ExtraTurnCostUSD] = state.TotalCostUSD

	logx.Debug().
		Str("conversation_id", state.ConversationID).
		Str("node", NodeResponseChatModel).
		Str("model", modelName).
		Int("prompt_tokens", cost.PromptTokens).
		Int("completion_tokens", cost.CompletionTokens).
		Int("total_tokens", cost.TotalTokens).
		Float64("total_cost_usd", cost.TotalCost).
		Msg("LLM usage")
}
