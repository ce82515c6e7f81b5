package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/spf13/viper"
	"google.golang.org/api/option"

	"relaychat/internal/api"
	"relaychat/internal/chunker"
	"relaychat/internal/config"
	"relaychat/internal/database"
	"relaychat/internal/embedding"
	"relaychat/internal/llm"
	"relaychat/internal/prompt"
	"relaychat/internal/repository"
	"relaychat/internal/service"
	"relaychat/internal/telemetry"
	"relaychat/internal/vectorstore"
	"relaychat/internal/watcher"
)

const (
	serviceName     = "relaychat"
	shutdownTimeout = 30 * time.Second
)

// App holds the wired server and the resources it owns.
type App struct {
	Server *http.Server
	// DB backs the embedding cache; nil when the cache is disabled.
	DB    *sql.DB
	Store *vectorstore.MemoryStore

	watcher *watcher.Watcher
	closers []func() error
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownTracer(sctx)
	}()

	if cfg.LLMProvider == config.ProviderOllama {
		waitForOllama(ctx, cfg.OllamaURL, cfg.WaitForModel)
	}

	app, err := NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer app.Close()

	if err := app.Serve(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

// NewApp builds every component from cfg. Nothing is started until Serve.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	provider, embedder, err := app.buildModels(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	if cfg.EmbeddingCachePath != "" {
		db, err := database.InitDB(cfg.EmbeddingCachePath)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize embedding cache: %w", err)
		}
		app.DB = db
		app.closers = append(app.closers, db.Close)
		embedder = embedding.NewCachedEmbedder(embedder, repository.NewSQLiteRepository(db))
		slog.Info("Embedding cache enabled.", "path", cfg.EmbeddingCachePath)
	}

	c, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Store = vectorstore.NewMemoryStore(embedder)
	assembler := prompt.NewAssembler(cfg.HistoryLimit)

	chatService := service.NewChatService(app.Store, c, assembler, provider, cfg.RetrievalTopK)
	modelService := service.NewModelService(provider)
	documentService := service.NewDocumentService(app.Store, c, cfg.MaxUploadBytes)

	if cfg.DocsDir != "" {
		w, err := watcher.New(cfg.DocsDir, documentService, watcher.DefaultDebounce)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.watcher = w
		app.closers = append(app.closers, w.Close)
	}

	var limiter *api.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := api.NewRouter(api.Handlers{
		Chat:        api.NewChatHandler(chatService),
		Models:      api.NewModelHandler(modelService),
		Documents:   api.NewDocumentHandler(documentService),
		RateLimiter: limiter,
		StaticDir:   cfg.StaticDir,
	})

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return app, nil
}

func (a *App) buildModels(ctx context.Context, cfg *config.Config) (llm.Provider, embedding.Embedder, error) {
	var provider llm.Provider
	var embedder embedding.Embedder

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		provider = llm.NewGeminiProvider(client, cfg.GeminiChatModel)
		embedder = embedding.NewGeminiEmbedder(client, cfg.GeminiEmbeddingModel)
		slog.Info("Using Gemini provider", "chat_model", cfg.GeminiChatModel, "embedding_model", cfg.GeminiEmbeddingModel)
	default:
		provider = llm.NewOllamaProvider(cfg.OllamaURL, cfg.ChatModel)
		embedder = embedding.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbeddingModel)
		slog.Info("Using Ollama provider", "url", cfg.OllamaURL, "chat_model", cfg.ChatModel, "embedding_model", cfg.EmbeddingModel)
	}

	return llm.NewBreakerProvider(provider, llm.DefaultBreakerSettings(cfg.LLMProvider)), embedder, nil
}

// Serve starts the docs watcher and the HTTP server and blocks until ctx is
// done, then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	if a.watcher != nil {
		go func() {
			if err := a.watcher.Run(ctx); err != nil {
				slog.Error("Documents watcher stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(sctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return <-errCh
}

// Close releases everything NewApp opened, in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Error("Failed to release resource", "error", err)
		}
	}
	a.closers = nil
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// waitForOllama polls the Ollama root until it answers 200 or maxWait
// elapses. A model that is still down afterwards surfaces as 503s.
func waitForOllama(ctx context.Context, ollamaURL string, maxWait time.Duration) bool {
	if maxWait <= 0 {
		return false
	}
	slog.Info("Waiting for Ollama to be ready...", "max_wait", maxWait.String())

	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	client := &http.Client{Timeout: 2 * time.Second}
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ollamaURL, nil)
		if err != nil {
			slog.Warn("Invalid Ollama URL", "url", ollamaURL, "error", err)
			return false
		}
		resp, err := client.Do(req)
		if err == nil {
			if bErr := resp.Body.Close(); bErr != nil {
				slog.Warn("Failed to close response body in ollama health check", "error", bErr)
			}
			if resp.StatusCode == http.StatusOK {
				slog.Info("Ollama is ready.")
				return true
			}
		}
		slog.Debug("Ollama not ready yet, retrying...", "url", ollamaURL, "error", err)

		select {
		case <-ctx.Done():
			slog.Warn("Ollama did not become ready in time, starting anyway.", "url", ollamaURL)
			return false
		case <-time.After(time.Second):
		}
	}
}
