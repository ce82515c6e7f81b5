// Package vectorstore keeps embedded document chunks in memory and answers
// nearest-neighbour queries by cosine similarity.
package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"relaychat/internal/embedding"
	"relaychat/internal/model"
)

var tracer = otel.Tracer("relaychat/vectorstore")

// MemoryStore is process-lifetime storage for embedded chunks. It is shared by
// every request: chunks added for one conversation are visible to all later
// retrievals, and nothing is ever evicted.
type MemoryStore struct {
	embedder embedding.Embedder

	mu     sync.RWMutex
	chunks []model.EmbeddedChunk
	seen   map[chunkKey]struct{}
}

// chunkKey identifies a chunk by its document and position. Source tags are
// content hashes, so re-adding the same document is a no-op.
type chunkKey struct {
	source string
	index  int
}

func NewMemoryStore(embedder embedding.Embedder) *MemoryStore {
	return &MemoryStore{embedder: embedder, seen: make(map[chunkKey]struct{})}
}

// AddDocuments embeds chunks and appends them to the store. Chunks already
// present (same SourceTag and Index) are skipped. On error nothing is added.
func (s *MemoryStore) AddDocuments(ctx context.Context, chunks []model.DocumentChunk) error {
	chunks = s.unseen(chunks)
	if len(chunks) == 0 {
		return nil
	}
	ctx, span := tracer.Start(ctx, "vectorstore.add_documents")
	defer span.End()
	span.SetAttributes(attribute.Int("vectorstore.chunks", len(chunks)))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "embedding failed")
		return fmt.Errorf("could not embed document chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	embedded := make([]model.EmbeddedChunk, len(chunks))
	for i, c := range chunks {
		embedded[i] = model.EmbeddedChunk{
			ID:            uuid.NewString(),
			DocumentChunk: c,
			Embedding:     vectors[i],
		}
	}

	s.mu.Lock()
	for _, c := range embedded {
		key := chunkKey{source: c.SourceTag, index: c.Index}
		// A concurrent add of the same document may have won the race.
		if _, dup := s.seen[key]; dup && c.SourceTag != "" {
			continue
		}
		s.seen[key] = struct{}{}
		s.chunks = append(s.chunks, c)
	}
	total := len(s.chunks)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("vectorstore.size", total))
	return nil
}

// Retrieve returns up to k chunks most similar to query, best first. Equal
// scores keep insertion order. An empty store answers without embedding the
// query.
func (s *MemoryStore) Retrieve(ctx context.Context, query string, k int) (*model.RetrievalResult, error) {
	ctx, span := tracer.Start(ctx, "vectorstore.retrieve")
	defer span.End()
	span.SetAttributes(attribute.Int("vectorstore.k", k))

	if k <= 0 || s.Len() == 0 {
		return &model.RetrievalResult{}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query embedding failed")
		return nil, fmt.Errorf("could not embed query: %w", err)
	}

	s.mu.RLock()
	scored := make([]model.ScoredChunk, len(s.chunks))
	for i, c := range s.chunks {
		scored[i] = model.ScoredChunk{Chunk: c, Score: cosineSimilarity(queryVec, c.Embedding)}
	}
	s.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}

	span.SetAttributes(attribute.Int("vectorstore.results", len(scored)))
	return &model.RetrievalResult{Chunks: scored}, nil
}

func (s *MemoryStore) unseen(chunks []model.DocumentChunk) []model.DocumentChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.DocumentChunk, 0, len(chunks))
	for _, c := range chunks {
		if c.SourceTag != "" {
			if _, dup := s.seen[chunkKey{source: c.SourceTag, index: c.Index}]; dup {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// Len reports the number of stored chunks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// cosineSimilarity is 0 for mismatched lengths or zero vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
