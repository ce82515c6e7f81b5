package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "relaychat/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Chat        *ChatHandler
	Models      *ModelHandler
	Documents   *DocumentHandler
	RateLimiter *RateLimiter
	// StaticDir, when set, is served at / for a built front end.
	StaticDir string
}

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	// Recoverer re-panics http.ErrAbortHandler, which the chat stream relies on.
	r.Use(middleware.Recoverer)

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/models", h.Models.HandleListModels)
			r.Post("/documents/extract", h.Documents.HandleExtract)
		})

		// Streaming must not have a timeout; the model decides how long a reply takes.
		r.Group(func(r chi.Router) {
			r.Use(h.RateLimiter.Middleware)
			r.Post("/chat", h.Chat.HandleChat)
		})
	})

	if h.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(h.StaticDir))
		r.Handle("/*", fileServer)
	}

	return r
}
