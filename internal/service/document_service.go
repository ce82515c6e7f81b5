package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"relaychat/internal/chunker"
	app_errors "relaychat/internal/errors"
	"relaychat/internal/extract"
	"relaychat/internal/model"
)

// DefaultMaxUploadBytes bounds uploaded documents.
const DefaultMaxUploadBytes = 10 << 20

// DocumentService converts uploads to text and feeds documents into the
// shared store.
type DocumentService struct {
	store    DocumentStore
	chunker  *chunker.Chunker
	maxBytes int64
}

func NewDocumentService(store DocumentStore, c *chunker.Chunker, maxBytes int64) *DocumentService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &DocumentService{store: store, chunker: c, maxBytes: maxBytes}
}

// MaxBytes is the upload size limit.
func (s *DocumentService) MaxBytes() int64 { return s.maxBytes }

// Extract reads at most MaxBytes from r and returns its plain text.
func (s *DocumentService) Extract(ctx context.Context, filename string, r io.Reader) (*model.ExtractedDocument, error) {
	if !extract.Supported(filename) {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrUnsupported, filename)
	}
	content, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("could not read upload: %w", err)
	}
	if int64(len(content)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", app_errors.ErrTooLarge, filename, s.maxBytes)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := extract.Extract(filename, content)
	if err != nil {
		return nil, err
	}
	slog.Info("Extracted document text", "filename", doc.Filename, "characters", doc.Characters)
	return doc, nil
}

// Ingest chunks text and adds it to the shared store. It returns the number
// of chunks produced.
func (s *DocumentService) Ingest(ctx context.Context, name, text string) (int, error) {
	chunks := s.chunker.Split(text, SourceTag(text))
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := s.store.AddDocuments(ctx, chunks); err != nil {
		return 0, fmt.Errorf("could not index %s: %w", name, err)
	}
	slog.Info("Indexed document", "name", name, "chunks", len(chunks))
	return len(chunks), nil
}
