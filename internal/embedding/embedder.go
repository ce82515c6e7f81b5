// Package embedding turns text into fixed-length vectors for similarity search.
package embedding

import "context"

// Embedder maps text to embedding vectors. Every vector produced by one
// Embedder has the same dimensionality.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Model names the embedding model, used to key cached vectors.
	Model() string
}
