package llm

import (
	"context"
	"encoding/json"
)

// Roles understood by every provider. Providers translate them into their own
// vocabulary at the boundary.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of an assembled prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest carries an assembled prompt. An empty Model selects the
// provider's configured default.
type GenerateRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// GenerateResponse is the result of a batch invocation.
type GenerateResponse struct {
	Model   string `json:"model"`
	Content string `json:"content"`
}

// StreamResponse is one fragment of a streaming invocation. Fragments carry
// opaque text with no token or sentence alignment.
type StreamResponse struct {
	Content string
	Done    bool
}

// Provider is the narrow contract every model backend implements.
type Provider interface {
	// Generate waits for the complete reply.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	// GenerateStream sends fragments to ch as they arrive and always closes ch
	// before returning. A non-nil error means the sequence ended early.
	GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error
	// ListModels returns the backend's model listing as JSON.
	ListModels(ctx context.Context) (json.RawMessage, error)
}
