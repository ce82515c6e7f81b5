package repository

import (
	"context"
)

// EmbeddingCache stores embedding vectors keyed by model and content.
type EmbeddingCache interface {
	GetEmbedding(ctx context.Context, model, content string) ([]float32, error)
	PutEmbedding(ctx context.Context, model, content string, vector []float32) error
}
