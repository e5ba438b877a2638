package rag

import (
	"context"
	"fmt"

	geminiemb "github.com/cloudwego/eino-ext/components/embedding/gemini"
	"github.com/cloudwego/eino/components/embedding"
	"google.golang.org/genai"
)

// NewEmbedder returns the Gemini embedder used for both chunks and queries.
func NewEmbedder(ctx context.Context, client *genai.Client, model string) (embedding.Embedder, error) {
	if client == nil {
		return nil, fmt.Errorf("genai client is nil")
	}
	if model == "" {
		return nil, fmt.Errorf("embedding model is empty")
	}
	emb, err := geminiemb.NewEmbedder(ctx, &geminiemb.EmbeddingConfig{
		Client: client,
		Model:  model,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini embedder: %w", err)
	}
	return emb, nil
}
