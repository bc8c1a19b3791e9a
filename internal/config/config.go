package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Embedding Provider Configuration
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	EmbeddingModel string
	ChatModel      string

	// Embedding Contract
	EmbeddingDimension int
	EmbeddingBatchSize int

	// Vector Store Configuration
	VectorStoreURL  string
	CollectionName  string
	Namespace       string
	UploadBatchSize int
	UploadDelay     time.Duration

	// Ingestion Configuration
	SpoolDir      string
	ChunkingFile  string
	ChunkPolicies PolicyTable

	// Server Configuration
	ServerPort string
	LogLevel   string
	LogFormat  string

	// Chat Configuration
	// PromptTemplateFile overrides the built-in chat prompt template.
	PromptTemplateFile string

	// Redis Configuration (conversation history)
	RedisURL      string
	RedisPassword string
	RedisDB       int
	HistoryLimit  int
	HistoryTTL    time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com"),
		EmbeddingModel: getEnvOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:      getEnvOrDefault("CHAT_MODEL", "gpt-4o-mini"),

		EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 1536),
		EmbeddingBatchSize: getEnvAsInt("EMBEDDING_BATCH_SIZE", 100),

		VectorStoreURL:  getEnvOrDefault("VECTOR_STORE_URL", "http://localhost:6333"),
		CollectionName:  getEnvOrDefault("COLLECTION_NAME", "doc_knowledge_base"),
		Namespace:       os.Getenv("INDEX_NAMESPACE"),
		UploadBatchSize: getEnvAsInt("UPLOAD_BATCH_SIZE", 100),
		UploadDelay:     getEnvAsDuration("UPLOAD_DELAY", 100*time.Millisecond),

		SpoolDir:     getEnvOrDefault("SPOOL_DIR", "./spool"),
		ChunkingFile: os.Getenv("CHUNKING_CONFIG_FILE"),

		ServerPort: getEnvOrDefault("SERVER_PORT", "8080"),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:  getEnvOrDefault("LOG_FORMAT", "json"),

		PromptTemplateFile: os.Getenv("PROMPT_TEMPLATE_FILE"),

		RedisURL:      getEnvOrDefault("REDIS_URL", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		HistoryLimit:  getEnvAsInt("HISTORY_LIMIT", 20),
		HistoryTTL:    getEnvAsDuration("HISTORY_TTL", 24*time.Hour),
	}

	if cfg.EmbeddingDimension <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", cfg.EmbeddingDimension)
	}
	if cfg.EmbeddingBatchSize <= 0 {
		return nil, fmt.Errorf("EMBEDDING_BATCH_SIZE must be positive, got %d", cfg.EmbeddingBatchSize)
	}

	policies, err := LoadPolicies(cfg.ChunkingFile)
	if err != nil {
		return nil, err
	}
	cfg.ChunkPolicies = policies

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		fmt.Sscanf(value, "%d", &i)
		return i
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
