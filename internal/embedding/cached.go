package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"relaychat/internal/repository"
)

type cachedEmbedder struct {
	inner Embedder
	cache repository.EmbeddingCache
}

// NewCachedEmbedder consults cache before calling inner and stores every new
// vector. Cache failures are logged and never fail the embedding.
func NewCachedEmbedder(inner Embedder, cache repository.EmbeddingCache) Embedder {
	return &cachedEmbedder{inner: inner, cache: cache}
}

func (c *cachedEmbedder) Model() string { return c.inner.Model() }

func (c *cachedEmbedder) lookup(ctx context.Context, text string) ([]float32, bool) {
	vec, err := c.cache.GetEmbedding(ctx, c.inner.Model(), text)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("Embedding cache lookup failed", "model", c.inner.Model(), "error", err)
		}
		return nil, false
	}
	return vec, true
}

func (c *cachedEmbedder) store(ctx context.Context, text string, vec []float32) {
	if err := c.cache.PutEmbedding(ctx, c.inner.Model(), text, vec); err != nil {
		slog.Warn("Could not store embedding in cache", "model", c.inner.Model(), "error", err)
	}
}

func (c *cachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.lookup(ctx, text); ok {
		return vec, nil
	}
	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, text, vec)
	return vec, nil
}

// EmbedBatch forwards only the cache misses to the inner embedder.
func (c *cachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := c.lookup(ctx, text); ok {
			vectors[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return vectors, nil
	}

	slog.Debug("Embedding cache misses", "model", c.inner.Model(), "hits", len(texts)-len(missing), "misses", len(missing))
	fresh, err := c.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missing) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(fresh), len(missing))
	}
	for j, vec := range fresh {
		vectors[missingIdx[j]] = vec
		c.store(ctx, missing[j], vec)
	}
	return vectors, nil
}
