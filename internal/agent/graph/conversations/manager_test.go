package conversations

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/model"
	"github.com/netops-assistant/server/internal/agent/repo"
)

func newManager(maxTurns, maxTokens int) (*MessagesManager, *repo.MemoryConversationRepository) {
	r := repo.NewMemoryConversationRepository()
	cfg := model.ConversationConfig{MaxTurns: maxTurns, MaxTokens: maxTokens}
	return NewMessagesManager(r, cfg), r
}

func TestBuildResponseContextPrependsSystemPrompt(t *testing.T) {
	ctx := context.Background()
	mm, _ := newManager(10, 0)
	if err := mm.SaveQuery(ctx, "c", "what VLAN is Gi0/5 on asw1?"); err != nil {
		t.Fatalf("SaveQuery: %v", err)
	}
	msgs, err := mm.BuildResponseContext(ctx, "c", "system")
	if err != nil {
		t.Fatalf("BuildResponseContext: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != schema.System || msgs[1].Role != schema.User {
		t.Fatalf("unexpected context: %+v", msgs)
	}
}

func TestBuildResponseContextTurnLimit(t *testing.T) {
	ctx := context.Background()
	mm, _ := newManager(3, 0)
	for _, q := range []string{"one", "two", "three", "four", "five"} {
		_ = mm.SaveQuery(ctx, "c", q)
	}
	msgs, _ := mm.BuildResponseContext(ctx, "c", "sys")
	if len(msgs) != 4 || msgs[1].Content != "three" || msgs[3].Content != "five" {
		t.Fatalf("unexpected window: %v", contents(msgs))
	}
}

func TestBuildResponseContextTokenBudget(t *testing.T) {
	ctx := context.Background()
	mm, _ := newManager(0, 12)
	long := strings.Repeat("x", 40) // 10 tokens
	_ = mm.SaveQuery(ctx, "c", long)
	_ = mm.SaveResponse(ctx, "c", long)
	_ = mm.SaveQuery(ctx, "c", "again")
	// budget 12 minus 1 for "sys" leaves room for "again" (2) but not another 10
	msgs, _ := mm.BuildResponseContext(ctx, "c", "sys")
	if len(msgs) != 2 || msgs[1].Content != "again" {
		t.Fatalf("expected only the newest turn to fit, got %v", contents(msgs))
	}
}

func TestTrimToTokenBudgetKeepsNewest(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage(strings.Repeat("a", 400)),
	}
	got := trimToTokenBudget(msgs, 1)
	if len(got) != 1 {
		t.Fatalf("newest message dropped")
	}
}

func TestTrimToTokenBudgetStartsOnUserTurn(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage(strings.Repeat("a", 80)),
		schema.AssistantMessage("abcd", nil),
		schema.UserMessage("abcd"),
		schema.AssistantMessage("abcd", nil),
	}
	got := trimToTokenBudget(msgs, 3)
	if len(got) != 2 || got[0].Role != schema.User {
		t.Fatalf("window should open on a user turn, got %v", contents(got))
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := map[string]int{"": 0, "a": 1, "abcd": 1, "abcde": 2, "привет": 2}
	for in, want := range tests {
		if got := EstimateTokens(in); got != want {
			t.Fatalf("EstimateTokens(%q) = %d, want %d", in, got, want)
		}
	}
}

func contents(msgs []*schema.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Content)
	}
	return out
}
