package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	app_errors "relaychat/internal/errors"
)

type ollamaEmbedder struct {
	client *http.Client
	url    string
	model  string
}

// NewOllamaEmbedder returns an Embedder using Ollama's /api/embeddings endpoint.
func NewOllamaEmbedder(url, model string) Embedder {
	return &ollamaEmbedder{client: &http.Client{}, url: url, model: model}
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

func (e *ollamaEmbedder) Model() string { return e.model }

func (e *ollamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaEmbeddingRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding request failed: %v", app_errors.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: embeddings api returned non-200 status %d: %s", app_errors.ErrModelUnavailable, resp.StatusCode, string(bodyBytes))
	}

	var out ollamaEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: could not decode embedding: %v", app_errors.ErrModelUnavailable, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrModelUnavailable, out.Error)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("%w: model %q returned an empty embedding", app_errors.ErrModelUnavailable, e.model)
	}
	return out.Embedding, nil
}

// EmbedBatch issues one request per text; the endpoint takes a single prompt.
func (e *ollamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding %d of %d: %w", i+1, len(texts), err)
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}
