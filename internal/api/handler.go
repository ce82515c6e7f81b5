package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "relaychat/internal/errors"
	"relaychat/internal/interfaces"
	"relaychat/internal/model"
)

// ChatHandler serves the chat relay endpoint.
type ChatHandler struct {
	service interfaces.ChatService
}

func NewChatHandler(svc interfaces.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// HandleChat godoc
// @Summary      Chat with the model
// @Description  Relays the conversation to the language model, optionally grounded on an attached document. The reply is streamed as raw UTF-8 text fragments with no framing; set "stream": false to receive a single JSON object instead. If the model fails after streaming has started the connection is aborted.
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Produce      json
// @Param        chatRequest  body      model.ChatRequest  true  "Conversation and optional document"
// @Success      200          {string}  string             "Raw text stream, or model.CompletionResponse when stream is false"
// @Failure      400          {object}  ErrorResponse
// @Failure      429          {object}  ErrorResponse
// @Failure      503          {object}  ErrorResponse
// @Router       /chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body: %v", app_errors.ErrValidation, err))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	if !req.WantsStream() {
		h.complete(w, r, &req)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	streamChan := make(chan model.StreamResponse)
	go h.service.HandleChat(ctx, &req, streamChan)

	// Nothing is written until the first event arrives, so a failure before
	// the model produces output still gets a proper status code.
	first, ok := <-streamChan
	if ok && first.Err != nil {
		respondWithError(w, first.Err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	if !ok {
		return
	}

	written := 0
	for chunk := first; ; {
		if chunk.Err != nil {
			// Headers and some bytes are already out; the only honest signal
			// left is to drop the connection.
			slog.Error("Model failed mid-stream, aborting connection", "bytes_written", written, "error", chunk.Err)
			panic(http.ErrAbortHandler)
		}
		if chunk.Content != "" {
			if err := writeFragment(w, chunk.Content); err != nil {
				slog.Warn("Could not write to chat stream, client likely disconnected.", "error", err)
				return
			}
			written += len(chunk.Content)
		}

		chunk, ok = <-streamChan
		if !ok {
			break
		}
	}

	slog.Debug("Finished streaming response.", "bytes_written", written)
}

func (h *ChatHandler) complete(w http.ResponseWriter, r *http.Request, req *model.ChatRequest) {
	message, err := h.service.Complete(r.Context(), req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, model.CompletionResponse{Message: message})
}
