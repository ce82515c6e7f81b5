package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"relaychat/internal/chunker"
	"relaychat/internal/llm"
	"relaychat/internal/model"
	"relaychat/internal/prompt"
)

var tracer = otel.Tracer("relaychat/service")

// DefaultTopK is the number of chunks injected into the prompt.
const DefaultTopK = 4

// DocumentStore is the shared retrieval index used for augmentation.
type DocumentStore interface {
	AddDocuments(ctx context.Context, chunks []model.DocumentChunk) error
	Retrieve(ctx context.Context, query string, k int) (*model.RetrievalResult, error)
}

// ChatService runs the augment, assemble and invoke pipeline for one request.
type ChatService struct {
	store     DocumentStore
	chunker   *chunker.Chunker
	assembler *prompt.Assembler
	llm       llm.Provider
	topK      int
}

func NewChatService(store DocumentStore, c *chunker.Chunker, assembler *prompt.Assembler, provider llm.Provider, topK int) *ChatService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ChatService{store: store, chunker: c, assembler: assembler, llm: provider, topK: topK}
}

// SourceTag names a document by a prefix of its content hash.
func SourceTag(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "doc-" + hex.EncodeToString(sum[:])[:12]
}

// HandleChat streams the model reply for req into streamChan and closes it.
// Fragments are forwarded as soon as they arrive. A failure is sent as a
// final element with Err set.
func (s *ChatService) HandleChat(ctx context.Context, req *model.ChatRequest, streamChan chan<- model.StreamResponse) {
	defer close(streamChan)

	ctx, span := tracer.Start(ctx, "chat.handle")
	defer span.End()

	messages, err := s.prepare(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prepare failed")
		slog.Error("Could not prepare prompt", "error", err)
		sendError(ctx, streamChan, err)
		return
	}

	llmReq := &llm.GenerateRequest{Messages: messages}
	llmStreamChan := make(chan llm.StreamResponse)
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.llm.GenerateStream(ctx, llmReq, llmStreamChan)
	}()

	fragments := 0
	for chunk := range llmStreamChan {
		if chunk.Content == "" {
			continue
		}
		select {
		case streamChan <- model.StreamResponse{Content: chunk.Content}:
			fragments++
		case <-ctx.Done():
			slog.Info("Client disconnected, abandoning model stream.", "fragments", fragments)
			return
		}
	}
	span.SetAttributes(attribute.Int("chat.fragments", fragments))

	if err := <-errChan; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model stream failed")
		if ctx.Err() != nil {
			slog.Info("Model stream stopped after client disconnect.", "fragments", fragments)
			return
		}
		slog.Error("Model stream failed", "fragments", fragments, "error", err)
		sendError(ctx, streamChan, err)
		return
	}

	select {
	case streamChan <- model.StreamResponse{Done: true}:
	case <-ctx.Done():
	}
}

// Complete runs the same pipeline in batch mode and returns the whole reply.
func (s *ChatService) Complete(ctx context.Context, req *model.ChatRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "chat.complete")
	defer span.End()

	messages, err := s.prepare(ctx, req)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	resp, err := s.llm.Generate(ctx, &llm.GenerateRequest{Messages: messages})
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return resp.Content, nil
}

// prepare augments the request with retrieved context when a document is
// attached and assembles the model prompt.
func (s *ChatService) prepare(ctx context.Context, req *model.ChatRequest) ([]llm.Message, error) {
	var retrieved string
	if doc := req.Document(); strings.TrimSpace(doc) != "" {
		var err error
		retrieved, err = s.augment(ctx, doc, req.LatestUserMessage())
		if err != nil {
			return nil, err
		}
	}
	return s.assembler.Assemble(req.Messages, retrieved)
}

func (s *ChatService) augment(ctx context.Context, doc, query string) (string, error) {
	ctx, span := tracer.Start(ctx, "chat.augment")
	defer span.End()

	tag := SourceTag(doc)
	chunks := s.chunker.Split(doc, tag)
	span.SetAttributes(
		attribute.String("document.source_tag", tag),
		attribute.Int("document.chunks", len(chunks)),
	)

	if err := s.store.AddDocuments(ctx, chunks); err != nil {
		return "", fmt.Errorf("could not index document: %w", err)
	}
	result, err := s.store.Retrieve(ctx, query, s.topK)
	if err != nil {
		return "", fmt.Errorf("could not retrieve context: %w", err)
	}

	slog.Debug("Retrieved document context", "source_tag", tag, "chunks", len(result.Chunks))
	return prompt.JoinContext(result.Texts()), nil
}

func sendError(ctx context.Context, streamChan chan<- model.StreamResponse, err error) {
	select {
	case streamChan <- model.StreamResponse{Error: err.Error(), Err: err}:
	case <-ctx.Done():
	}
}
