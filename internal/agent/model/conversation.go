package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ConversationRepository persists chat turns per conversation. Implementations
// live in internal/agent/repo (Redis for deployments, memory for local runs).
type ConversationRepository interface {
	// AddMessage appends a message to the conversation history
	AddMessage(ctx context.Context, conversationID string, message *schema.Message) error

	// LoadHistory retrieves the full conversation history in insertion order
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// ClearHistory removes all conversation history for a conversation
	ClearHistory(ctx context.Context, conversationID string) error

	// GetMessageCount returns the number of messages in the conversation
	GetMessageCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}
