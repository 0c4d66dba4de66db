package knowledge

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
)

// Source identifies one indexed chunk returned as answer evidence.
type Source struct {
	ID         string
	Origin     string // transcript, summary or chapters
	Content    string
	Similarity float32
}

// Base is a session-scoped similarity index over one video's text. It lives
// in memory for the session's duration; nothing is persisted.
type Base struct {
	collection *chromem.Collection
	embedder   embeddings.Embedder
}

// Search returns the top k most similar chunks for the query, most similar
// first. k is clamped to the collection size; an empty collection yields no
// results.
func (b *Base) Search(ctx context.Context, query string, k int) ([]Source, error) {
	count := b.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k <= 0 || k > count {
		k = count
	}

	vector, err := b.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	results, err := b.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	sources := make([]Source, len(results))
	for i, result := range results {
		sources[i] = Source{
			ID:         result.ID,
			Origin:     result.Metadata["source"],
			Content:    result.Content,
			Similarity: result.Similarity,
		}
	}
	return sources, nil
}

// Size reports the number of indexed chunks.
func (b *Base) Size() int {
	return b.collection.Count()
}
