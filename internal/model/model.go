package model

// Role identifies the author of a chat message on the wire.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of the conversation exchanged with the browser or
// terminal client.
type Message struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages   []Message `json:"messages" validate:"required,min=1,dive"`
	DocContent *string   `json:"docContent,omitempty"`
	// Stream defaults to true. When explicitly false the reply is a single JSON object.
	Stream *bool `json:"stream,omitempty"`
}

// WantsStream reports whether the caller asked for an incremental byte stream.
func (r *ChatRequest) WantsStream() bool {
	return r.Stream == nil || *r.Stream
}

// Document returns the uploaded document text, or "" when none was sent.
func (r *ChatRequest) Document() string {
	if r.DocContent == nil {
		return ""
	}
	return *r.DocContent
}

// LatestUserMessage returns the content of the most recent user turn.
func (r *ChatRequest) LatestUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// CompletionResponse is the body returned when streaming is disabled.
type CompletionResponse struct {
	Message string `json:"message"`
}

// StreamResponse is a single element of the pipe between the chat pipeline and
// the HTTP handler. Err is terminal: nothing follows it.
type StreamResponse struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

// DocumentChunk is a length-bounded slice of an uploaded document.
type DocumentChunk struct {
	Text      string `json:"text"`
	SourceTag string `json:"source_tag"`
	Index     int    `json:"index"`
}

// EmbeddedChunk is a DocumentChunk together with its vector embedding.
type EmbeddedChunk struct {
	ID string `json:"id"`
	DocumentChunk
	Embedding []float32 `json:"-"`
}

// ScoredChunk is one entry of a retrieval result.
type ScoredChunk struct {
	Chunk EmbeddedChunk `json:"chunk"`
	Score float64       `json:"score"`
}

// RetrievalResult holds the top-K chunks for a query, most similar first.
type RetrievalResult struct {
	Chunks []ScoredChunk `json:"chunks"`
}

// Texts returns the chunk texts in rank order.
func (r *RetrievalResult) Texts() []string {
	if r == nil {
		return nil
	}
	texts := make([]string, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		texts = append(texts, c.Chunk.Text)
	}
	return texts
}

// ExtractedDocument is the plain-text rendition of an uploaded file.
type ExtractedDocument struct {
	Filename   string `json:"filename"`
	Content    string `json:"content"`
	Characters int    `json:"characters"`
}
