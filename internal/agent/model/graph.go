package model

import (
	"github.com/cloudwego/eino/schema"
)

// AppState is the graph-local state of one chat turn. Eino hands it to the
// state pre/post handlers and compose.ProcessState one at a time; nothing
// else should hold a reference to it.
type AppState struct {
	ConversationID string

	// History is the model context for this turn: system prompt, stored
	// history, the query, then every assistant and tool message produced
	// while the turn runs.
	History []*schema.Message

	// Tool rounds executed this turn, and whether the limit cut tools off.
	ToolCallCount        int
	ToolCallLimitReached bool

	// ToolCallIDSeq numbers the tool calls Gemini returns without an ID.
	ToolCallIDSeq int

	// TotalCostUSD sums the priced usage of every model call this turn.
	TotalCostUSD float64
}

// QueryInput is one user message addressed to a conversation.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}
