package rag

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	logx "github.com/netops-assistant/server/pkg/logger"
)

// ErrNotIndexed is returned by Retrieve before the first successful build.
var ErrNotIndexed = errors.New("knowledge base not loaded")

// embedBatchSize is the per-request content limit of the Gemini embed API.
const embedBatchSize = 100

type entry struct {
	doc  *schema.Document
	vec  []float64
	norm float64
}

// Index is an in-memory cosine-similarity vector store. Rebuilds swap the
// whole entry set, so lookups never see a half-built index.
type Index struct {
	embedder embedding.Embedder
	splitter *Splitter
	topK     int

	mu      sync.RWMutex
	entries []entry
}

var _ retriever.Retriever = (*Index)(nil)

func NewIndex(embedder embedding.Embedder, splitter *Splitter, topK int) *Index {
	if topK <= 0 {
		topK = 2
	}
	return &Index{embedder: embedder, splitter: splitter, topK: topK}
}

// IndexDir loads, splits and embeds every document under dir.
func (ix *Index) IndexDir(ctx context.Context, dir string) (int, error) {
	docs, err := LoadDir(dir)
	if err != nil {
		return 0, err
	}
	return ix.Build(ctx, docs)
}

// Build replaces the index contents with the chunks of docs and returns the
// number of chunks indexed.
func (ix *Index) Build(ctx context.Context, docs []*schema.Document) (int, error) {
	chunks := docs
	if ix.splitter != nil {
		var err error
		if chunks, err = ix.splitter.SplitDocuments(docs); err != nil {
			return 0, err
		}
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no documents to index")
	}

	entries := make([]entry, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatchSize {
		batch := chunks[start:min(start+embedBatchSize, len(chunks))]
		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vecs, err := ix.embedder.EmbedStrings(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embed chunks: %w", err)
		}
		if len(vecs) != len(batch) {
			return 0, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vecs), len(batch))
		}
		for i, c := range batch {
			entries = append(entries, entry{doc: c, vec: vecs[i], norm: norm(vecs[i])})
		}
	}

	ix.mu.Lock()
	ix.entries = entries
	ix.mu.Unlock()

	logx.Info().Int("documents", len(docs)).Int("chunks", len(entries)).Msg("Documentation indexed")
	return len(entries), nil
}

// Len reports the number of indexed chunks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Retrieve returns the chunks most similar to query, best first. TopK and
// ScoreThreshold options override the index defaults.
func (ix *Index) Retrieve(ctx context.Context, query string, opts ...retriever.Option) (docs []*schema.Document, err error) {
	ctx = callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
		Name:      "DocsIndex",
		Type:      ix.GetType(),
		Component: components.ComponentOfRetriever,
	})
	ctx = callbacks.OnStart(ctx, &retriever.CallbackInput{Query: query, TopK: ix.topK})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
			return
		}
		callbacks.OnEnd(ctx, &retriever.CallbackOutput{Docs: docs})
	}()
	return ix.retrieve(ctx, query, opts...)
}

func (ix *Index) retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	topK := ix.topK
	options := retriever.GetCommonOptions(&retriever.Options{TopK: &topK}, opts...)
	if options.TopK != nil && *options.TopK > 0 {
		topK = *options.TopK
	}

	ix.mu.RLock()
	entries := ix.entries
	ix.mu.RUnlock()
	if len(entries) == 0 {
		return nil, ErrNotIndexed
	}

	vecs, err := ix.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vecs))
	}
	q := vecs[0]
	qn := norm(q)

	type scored struct {
		e     entry
		score float64
	}
	ranked := make([]scored, 0, len(entries))
	for _, e := range entries {
		s := cosine(q, qn, e.vec, e.norm)
		if options.ScoreThreshold != nil && s < *options.ScoreThreshold {
			continue
		}
		ranked = append(ranked, scored{e: e, score: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	out := make([]*schema.Document, 0, len(ranked))
	for _, r := range ranked {
		meta := make(map[string]any, len(r.e.doc.MetaData)+1)
		for k, v := range r.e.doc.MetaData {
			meta[k] = v
		}
		doc := &schema.Document{ID: r.e.doc.ID, Content: r.e.doc.Content, MetaData: meta}
		out = append(out, doc.WithScore(r.score))
	}
	return out, nil
}

// GetType names the implementation for callback run info.
func (ix *Index) GetType() string { return "InMemoryCosine" }

// IsCallbacksEnabled reports that Retrieve triggers callbacks itself.
func (ix *Index) IsCallbacksEnabled() bool { return true }

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func cosine(a []float64, an float64, b []float64, bn float64) float64 {
	if an == 0 || bn == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (an * bn)
}
