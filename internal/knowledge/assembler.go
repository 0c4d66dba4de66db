package knowledge

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/textsplitter"
	"golang.org/x/sync/errgroup"

	"video-rag/internal/helper"
)

// ErrEmbedding is returned when any chunk fails to embed. The whole build
// fails; callers retry the assembly as a unit, never reusing a partial index.
var ErrEmbedding = errors.New("embedding failed")

const (
	defaultChunkSize = 4000

	embedBatchSize   = 16
	embedParallelism = 4
)

type Options struct {
	ChunkSize int
}

// source names one text blob before splitting. Order is fixed: transcript,
// summary, chapters.
type source struct {
	name string
	text string
}

// Assemble splits the transcript, summary and chapter text into chunks,
// embeds every chunk and loads them into a fresh in-memory collection scoped
// to this session. The Base is only returned once every chunk is present;
// a partial index is never exposed.
func Assemble(ctx context.Context, embedder embeddings.Embedder, transcript, summary, chapters string, opts Options) (*Base, error) {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(0),
	)

	sources := []source{
		{name: "transcript", text: transcript},
		{name: "summary", text: summary},
		{name: "chapters", text: chapters},
	}

	var docs []chromem.Document
	for _, src := range sources {
		split, err := splitSource(splitter, src)
		if err != nil {
			return nil, err
		}
		docs = append(docs, split...)
	}

	if err := embedAll(ctx, embedder, docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	sessionID, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}

	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection("session-"+sessionID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	if len(docs) > 0 {
		if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("add documents: %w", err)
		}
	}

	log.Info().Int("chunks", len(docs)).Str("session", sessionID).Msg("Knowledge base ready")
	return &Base{collection: collection, embedder: embedder}, nil
}

// splitSource chunks one source's text. Chunk IDs keep provenance: the
// source name plus the chunk ordinal within that source.
func splitSource(splitter textsplitter.RecursiveCharacter, src source) ([]chromem.Document, error) {
	if strings.TrimSpace(src.text) == "" {
		return nil, nil
	}

	parts, err := splitter.SplitText(src.text)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", src.name, err)
	}

	docs := make([]chromem.Document, 0, len(parts))
	for i, part := range parts {
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s-%d", src.name, i),
			Content: part,
			Metadata: map[string]string{
				"source": src.name,
				"chunk":  strconv.Itoa(i),
			},
		})
	}
	return docs, nil
}

// embedAll fills in document embeddings batch by batch. Batches run
// concurrently with no ordering dependency; a single failure aborts the
// whole build.
func embedAll(ctx context.Context, embedder embeddings.Embedder, docs []chromem.Document) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embedParallelism)

	for start := 0; start < len(docs); start += embedBatchSize {
		batch := docs[start:min(start+embedBatchSize, len(docs))]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, doc := range batch {
				texts[i] = doc.Content
			}
			vectors, err := embedder.EmbedDocuments(ctx, texts)
			if err != nil {
				return err
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
			}
			for i := range batch {
				batch[i].Embedding = vectors[i]
			}
			return nil
		})
	}

	return g.Wait()
}
