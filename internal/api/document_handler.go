package api

import (
	"errors"
	"fmt"
	"net/http"

	app_errors "relaychat/internal/errors"
	"relaychat/internal/interfaces"
)

// multipartOverhead leaves room for part headers and boundaries on top of the
// file size limit.
const multipartOverhead = 64 << 10

// DocumentHandler turns uploaded files into text the client can attach as
// document context.
type DocumentHandler struct {
	service interfaces.DocumentService
}

func NewDocumentHandler(svc interfaces.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// HandleExtract godoc
// @Summary      Extract document text
// @Description  Converts an uploaded PDF, HTML or text file into plain text for use as docContent.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Document to extract"
// @Success      200   {object}  model.ExtractedDocument
// @Failure      400   {object}  ErrorResponse
// @Failure      413   {object}  ErrorResponse
// @Failure      415   {object}  ErrorResponse
// @Router       /documents/extract [post]
func (h *DocumentHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.service.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, fmt.Errorf("%w: upload exceeds %d bytes", app_errors.ErrTooLarge, maxBytes))
			return
		}
		respondWithError(w, fmt.Errorf("%w: expected a multipart form with a 'file' field: %v", app_errors.ErrValidation, err))
		return
	}
	defer file.Close()

	doc, err := h.service.Extract(r.Context(), header.Filename, file)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}
