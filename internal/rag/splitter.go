package rag

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Splitter cuts text into chunks of at most size runes, preferring paragraph,
// then line, then word boundaries. Consecutive chunks share up to overlap runes.
type Splitter struct {
	text textsplitter.RecursiveCharacter
}

// NewSplitter validates the sizes. Overlap must be smaller than size.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Splitter{text: textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
	)}, nil
}

// SplitText returns the trimmed, non-empty chunks of text.
func (s *Splitter) SplitText(text string) ([]string, error) {
	chunks, err := s.text.SplitText(text)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

// SplitDocuments splits each document, copying its metadata onto every chunk.
func (s *Splitter) SplitDocuments(docs []*schema.Document) ([]*schema.Document, error) {
	var out []*schema.Document
	for _, d := range docs {
		if d == nil {
			continue
		}
		chunks, err := s.SplitText(d.Content)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", d.ID, err)
		}
		for i, chunk := range chunks {
			meta := make(map[string]any, len(d.MetaData)+1)
			for k, v := range d.MetaData {
				meta[k] = v
			}
			out = append(out, &schema.Document{
				ID:       fmt.Sprintf("%s#%d", d.ID, i),
				Content:  chunk,
				MetaData: meta,
			})
		}
	}
	return out, nil
}
