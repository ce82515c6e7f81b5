package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

type Config struct {
	AppPort  int    `mapstructure:"APP_PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	LLMProvider    string `mapstructure:"LLM_PROVIDER"`
	OllamaURL      string `mapstructure:"OLLAMA_URL"`
	ChatModel      string `mapstructure:"CHAT_MODEL"`
	EmbeddingModel string `mapstructure:"EMBEDDING_MODEL"`

	GeminiAPIKey         string `mapstructure:"GEMINI_API_KEY"`
	GeminiChatModel      string `mapstructure:"GEMINI_CHAT_MODEL"`
	GeminiEmbeddingModel string `mapstructure:"GEMINI_EMBEDDING_MODEL"`

	ChunkSize     int `mapstructure:"CHUNK_SIZE"`
	ChunkOverlap  int `mapstructure:"CHUNK_OVERLAP"`
	RetrievalTopK int `mapstructure:"RETRIEVAL_TOP_K"`
	HistoryLimit  int `mapstructure:"HISTORY_LIMIT"`

	// EmbeddingCachePath is a SQLite DSN; ":memory:" keeps the cache in
	// process, "" disables it.
	EmbeddingCachePath string `mapstructure:"EMBEDDING_CACHE_PATH"`
	DocsDir            string `mapstructure:"DOCS_DIR"`
	MaxUploadBytes     int64  `mapstructure:"MAX_UPLOAD_BYTES"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	OTLPEndpoint string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	StaticDir    string        `mapstructure:"STATIC_DIR"`
	WaitForModel time.Duration `mapstructure:"WAIT_FOR_MODEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("LLM_PROVIDER", ProviderOllama)
	viper.SetDefault("OLLAMA_URL", "http://localhost:11434")
	viper.SetDefault("CHAT_MODEL", "llama3")
	viper.SetDefault("EMBEDDING_MODEL", "nomic-embed-text")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_CHAT_MODEL", "gemini-1.5-flash")
	viper.SetDefault("GEMINI_EMBEDDING_MODEL", "text-embedding-004")
	viper.SetDefault("CHUNK_SIZE", 1000)
	viper.SetDefault("CHUNK_OVERLAP", 200)
	viper.SetDefault("RETRIEVAL_TOP_K", 4)
	viper.SetDefault("HISTORY_LIMIT", 4)
	viper.SetDefault("EMBEDDING_CACHE_PATH", ":memory:")
	viper.SetDefault("DOCS_DIR", "")
	viper.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	viper.SetDefault("RATE_LIMIT_RPS", 0)
	viper.SetDefault("RATE_LIMIT_BURST", 5)
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	viper.SetDefault("STATIC_DIR", "")
	viper.SetDefault("WAIT_FOR_MODEL", "30s")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// An empty EMBEDDING_CACHE_PATH must be able to override the default.
	viper.AllowEmptyEnv(true)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOllama:
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is required for the %s provider", ProviderOllama)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the %s provider", ProviderGemini)
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q, want %q or %q", c.LLMProvider, ProviderOllama, ProviderGemini)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap)
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", c.RetrievalTopK)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return fmt.Errorf("APP_PORT out of range: %d", c.AppPort)
	}
	return nil
}
