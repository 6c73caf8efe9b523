package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Provider ProviderConfig
	Chat     ChatConfig
	Ingest   IngestConfig
	Server   ServerConfig
	Database DatabaseConfig
}

// IngestConfig controls chunking and embedding batching at ingest time.
type IngestConfig struct {
	ChunkWindow    int
	ChunkOverlap   int
	EmbedBatchSize int
}

// ProviderConfig configures the embedding/chat provider.
type ProviderConfig struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	Dimension      int
	MaxConcurrency int
}

// ChatConfig holds the retrieval/chat defaults.
type ChatConfig struct {
	MaxHistoryMessages int
	TopKDefault        int
	DefaultTemperature float64
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	RequestTimeout  time.Duration
	MaxRequestBytes int64
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	PoolMin          int
	PoolMax          int
	ConnMaxLifetime  time.Duration
}

// New loads configuration from the environment (optionally via a .env
// file) and validates it.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider: ProviderConfig{
			APIKey:         getEnv("PROVIDER_API_KEY", ""),
			BaseURL:        getEnv("PROVIDER_BASE_URL", ""),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			ChatModel:      getEnv("CHAT_MODEL", "gpt-4.1-mini"),
			Dimension:      getEnvAsInt("EMBEDDING_DIMENSION", 1536),
			MaxConcurrency: getEnvAsInt("PROVIDER_MAX_CONCURRENCY", 8),
		},
		Chat: ChatConfig{
			MaxHistoryMessages: getEnvAsInt("MAX_HISTORY_MESSAGES", 10),
			TopKDefault:        getEnvAsInt("TOP_K_DEFAULT", 5),
			DefaultTemperature: getEnvAsFloat("DEFAULT_TEMPERATURE", 0.3),
		},
		Ingest: IngestConfig{
			ChunkWindow:    getEnvAsInt("CHUNK_WINDOW", 200),
			ChunkOverlap:   getEnvAsInt("CHUNK_OVERLAP", 40),
			EmbedBatchSize: getEnvAsInt("EMBED_BATCH_SIZE", 64),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT_SECONDS", 60*time.Second),
			MaxRequestBytes: int64(getEnvAsInt("MAX_REQUEST_BYTES", 10*1024*1024)),
			CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "*")),
			ShutdownTimeout: 10 * time.Second,
		},
		Database: loadDatabaseConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks required configuration fields.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("PROVIDER_API_KEY is required")
	}
	if c.Provider.Dimension <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive")
	}
	if c.Chat.TopKDefault <= 0 {
		return fmt.Errorf("TOP_K_DEFAULT must be positive")
	}
	if c.Database.ConnectionString == "" && c.Database.Host == "" {
		return fmt.Errorf("database configuration required: set DATABASE_URL or DB_HOST")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Address returns the HTTP server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func loadDatabaseConfig() DatabaseConfig {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL != "" {
		return DatabaseConfig{
			ConnectionString: dbURL,
			PoolMin:          getEnvAsInt("DB_POOL_MIN", 2),
			PoolMax:          getEnvAsInt("DB_POOL_MAX", 25),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		}
	}
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", ""),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "ragvault"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "ragvault"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		PoolMin:         getEnvAsInt("DB_POOL_MIN", 2),
		PoolMax:         getEnvAsInt("DB_POOL_MAX", 25),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
