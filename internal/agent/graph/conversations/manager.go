package conversations

import (
	"context"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/model"
)

type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
	maxTokens        int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		maxTurns:         config.MaxTurns,
		maxTokens:        config.MaxTokens,
	}
}

// SaveQuery stores the user message for a new turn.
func (cm *MessagesManager) SaveQuery(ctx context.Context, conversationID string, query string) error {
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query))
}

// BuildResponseContext returns the system prompt followed by the most recent
// history that fits both the turn limit and the token budget.
func (cm *MessagesManager) BuildResponseContext(ctx context.Context, conversationID string, systemPrompt string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	recent := trimTail(history.Messages, cm.maxTurns)
	if cm.maxTokens > 0 {
		recent = trimToTokenBudget(recent, cm.maxTokens-EstimateTokens(systemPrompt))
	}

	messages := make([]*schema.Message, 0, len(recent)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, recent...)
	return messages, nil
}

func (cm *MessagesManager) SaveResponse(ctx context.Context, conversationID string, content string) error {
	assistantMsg := schema.AssistantMessage(content, nil)
	return cm.conversationRepo.AddMessage(ctx, conversationID, assistantMsg)
}

// ClearConversation drops the stored history.
func (cm *MessagesManager) ClearConversation(ctx context.Context, conversationID string) error {
	return cm.conversationRepo.ClearHistory(ctx, conversationID)
}

// EstimateTokens approximates the token count of s at four characters per
// token, rounding up.
func EstimateTokens(s string) int {
	n := utf8.RuneCountInString(s)
	return (n + 3) / 4
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	source := messages
	if maxTurns > 0 && len(messages) > maxTurns {
		source = messages[len(messages)-maxTurns:]
	}
	result := make([]*schema.Message, 0, len(source))
	for _, m := range source {
		if m == nil || m.Content == "" {
			continue
		}
		result = append(result, m)
	}
	return result
}

// trimToTokenBudget drops the oldest messages until the rest fit budget.
// The newest message is always kept, and a leading assistant message is
// dropped so the window opens on a user turn.
func trimToTokenBudget(messages []*schema.Message, budget int) []*schema.Message {
	if len(messages) == 0 {
		return messages
	}
	total := 0
	start := len(messages) - 1
	total += EstimateTokens(messages[start].Content)
	for start > 0 {
		cost := EstimateTokens(messages[start-1].Content)
		if total+cost > budget {
			break
		}
		total += cost
		start--
	}
	for start < len(messages)-1 && messages[start].Role != schema.User {
		start++
	}
	return messages[start:]
}
