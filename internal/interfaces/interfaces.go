package interfaces

import (
	"context"
	"encoding/json"
	"io"

	"relaychat/internal/model"
)

// The API layer depends on these contracts rather than on concrete services,
// so handlers can be tested against mocks.

// ChatService defines the contract for the chat pipeline.
type ChatService interface {
	HandleChat(ctx context.Context, req *model.ChatRequest, streamChan chan<- model.StreamResponse)
	Complete(ctx context.Context, req *model.ChatRequest) (string, error)
}

// ModelService defines the contract for listing models.
type ModelService interface {
	List(ctx context.Context) (json.RawMessage, error)
}

// DocumentService defines the contract for document uploads.
type DocumentService interface {
	Extract(ctx context.Context, filename string, r io.Reader) (*model.ExtractedDocument, error)
	MaxBytes() int64
}
