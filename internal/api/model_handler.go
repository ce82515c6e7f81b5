package api

import (
	"net/http"

	"relaychat/internal/interfaces"
)

// ModelHandler handles HTTP requests for the model listing.
type ModelHandler struct {
	service interfaces.ModelService
}

func NewModelHandler(svc interfaces.ModelService) *ModelHandler {
	return &ModelHandler{service: svc}
}

// HandleListModels godoc
// @Summary      List models
// @Description  Returns the model provider's listing unmodified (Ollama's /api/tags shape for the Ollama backend).
// @Tags         Models
// @Produce      json
// @Success      200  {object}  object
// @Failure      503  {object}  ErrorResponse
// @Router       /models [get]
func (h *ModelHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithRaw(w, http.StatusOK, models)
}
