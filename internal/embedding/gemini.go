package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	app_errors "relaychat/internal/errors"
)

// maxGeminiBatch is the most requests one BatchEmbedContents call accepts.
const maxGeminiBatch = 100

type geminiEmbedder struct {
	em    *genai.EmbeddingModel
	model string
}

// NewGeminiEmbedder returns an Embedder backed by a Gemini embedding model.
func NewGeminiEmbedder(client *genai.Client, model string) Embedder {
	return &geminiEmbedder{em: client.EmbeddingModel(model), model: model}
}

func (e *geminiEmbedder) Model() string { return e.model }

func (e *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrModelUnavailable, err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: model %q returned an empty embedding", app_errors.ErrModelUnavailable, e.model)
	}
	return res.Embedding.Values, nil
}

func (e *geminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedInBatches(ctx, texts, maxGeminiBatch, e.embedBatch)
}

func (e *geminiEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	batch := e.em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}
	res, err := e.em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrModelUnavailable, err)
	}
	vectors := make([][]float32, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// embedInBatches calls embed on consecutive slices of at most size texts and
// joins the vectors in input order.
func embedInBatches(ctx context.Context, texts []string, size int, embed func(context.Context, []string) ([][]float32, error)) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		got, err := embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(got) != end-start {
			return nil, fmt.Errorf("%w: expected %d embeddings, got %d", app_errors.ErrModelUnavailable, end-start, len(got))
		}
		vectors = append(vectors, got...)
	}
	return vectors, nil
}
