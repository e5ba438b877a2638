package repo

import (
	"context"
	"sync"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()

	if err := r.AddMessage(ctx, "c1", schema.UserMessage("ping asw1")); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := r.AddMessage(ctx, "c1", schema.AssistantMessage("asw1 is reachable", nil)); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := r.AddMessage(ctx, "c2", schema.UserMessage("other")); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	h, err := r.LoadHistory(ctx, "c1")
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(h.Messages) != 2 || h.Messages[0].Content != "ping asw1" || h.Messages[1].Role != schema.Assistant {
		t.Fatalf("unexpected history: %+v", h.Messages)
	}

	// callers may not grow the stored slice through the returned one
	h.Messages = append(h.Messages[:0], schema.UserMessage("mutated"))
	if n, _ := r.GetMessageCount(ctx, "c1"); n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
	again, _ := r.LoadHistory(ctx, "c1")
	if again.Messages[0].Content != "ping asw1" {
		t.Fatalf("stored history mutated via returned slice")
	}

	if err := r.ClearHistory(ctx, "c1"); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if n, _ := r.GetMessageCount(ctx, "c1"); n != 0 {
		t.Fatalf("count after clear = %d", n)
	}
	if n, _ := r.GetMessageCount(ctx, "c2"); n != 1 {
		t.Fatalf("other conversation affected: %d", n)
	}
}

func TestMemoryRepositoryConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.AddMessage(ctx, "c", schema.UserMessage("x"))
		}()
	}
	wg.Wait()
	if n, _ := r.GetMessageCount(ctx, "c"); n != 50 {
		t.Fatalf("count = %d, want 50", n)
	}
}
