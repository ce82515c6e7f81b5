// Package embeddingtest provides a deterministic Embedder for tests.
package embeddingtest

import (
	"context"
	"strings"
	"sync"
)

// KeywordEmbedder maps text to one dimension per keyword (its occurrence
// count) plus a small constant bias so no vector is all zeros. Two texts
// mentioning the same keywords are maximally similar.
type KeywordEmbedder struct {
	Keywords []string

	mu    sync.Mutex
	calls int
}

func NewKeywordEmbedder(keywords ...string) *KeywordEmbedder {
	return &KeywordEmbedder{Keywords: keywords}
}

func (e *KeywordEmbedder) Model() string { return "keyword-test" }

func (e *KeywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	return e.vector(text), nil
}

func (e *KeywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

// Calls reports how many Embed and EmbedBatch calls were made.
func (e *KeywordEmbedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *KeywordEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	vec := make([]float32, len(e.Keywords)+1)
	for i, kw := range e.Keywords {
		vec[i] = float32(strings.Count(lower, strings.ToLower(kw)))
	}
	vec[len(e.Keywords)] = 0.1
	return vec
}
