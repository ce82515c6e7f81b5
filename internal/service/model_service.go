package service

import (
	"context"
	"encoding/json"

	"relaychat/internal/llm"
)

// ModelService exposes the provider's model listing.
type ModelService struct {
	llm llm.Provider
}

// NewModelService creates a new ModelService.
func NewModelService(provider llm.Provider) *ModelService {
	return &ModelService{llm: provider}
}

// List returns the provider's model listing unmodified.
func (s *ModelService) List(ctx context.Context) (json.RawMessage, error) {
	return s.llm.ListModels(ctx)
}
