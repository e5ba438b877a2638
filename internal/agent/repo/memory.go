package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/model"
)

// MemoryConversationRepository keeps history in process memory. Used when no
// Redis URL is configured and in tests.
type MemoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string][]*schema.Message
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{conversations: make(map[string][]*schema.Message)}
}

func (r *MemoryConversationRepository) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[conversationID] = append(r.conversations[conversationID], message)
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := make([]*schema.Message, len(r.conversations[conversationID]))
	copy(msgs, r.conversations[conversationID])
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (r *MemoryConversationRepository) ClearHistory(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conversations, conversationID)
	return nil
}

func (r *MemoryConversationRepository) GetMessageCount(ctx context.Context, conversationID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conversations[conversationID]), nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)
