package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/upb/ragvault/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.PoolMax)
	db.SetMaxIdleConns(cfg.PoolMin)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", zap.String("database", cfg.Database))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// NewDBFromConn wraps an already-open *sql.DB, bypassing DSN handling.
// Used in tests to wrap a sqlmock connection.
func NewDBFromConn(conn *sql.DB, logger *zap.Logger) *DB {
	return &DB{DB: conn, logger: logger}
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema creates every table and index the service needs, idempotently.
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		CREATE EXTENSION IF NOT EXISTS vector;

		CREATE TABLE IF NOT EXISTS vaults (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			description TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			vault_id UUID REFERENCES vaults(id) ON DELETE CASCADE,
			title VARCHAR(500) NOT NULL,
			source TEXT,
			metadata JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS chunks (
			id UUID PRIMARY KEY,
			document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			ordinal INTEGER NOT NULL,
			text TEXT NOT NULL,
			token_count INTEGER NOT NULL,
			UNIQUE(document_id, ordinal)
		);

		CREATE TABLE IF NOT EXISTS embeddings (
			chunk_id UUID PRIMARY KEY REFERENCES chunks(id) ON DELETE CASCADE,
			document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			vault_id UUID REFERENCES vaults(id) ON DELETE CASCADE,
			ordinal INTEGER NOT NULL,
			title VARCHAR(500),
			source TEXT,
			text TEXT NOT NULL,
			vector vector NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_active_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			session_id VARCHAR(255) NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			role VARCHAR(20) NOT NULL CHECK (role IN ('user', 'assistant', 'system')),
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS agents (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			vault_id UUID NOT NULL REFERENCES vaults(id) ON DELETE CASCADE,
			system_prompt TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(name, vault_id)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_vault_id ON documents(vault_id);
		CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
		CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);
		CREATE INDEX IF NOT EXISTS idx_embeddings_vault_id ON embeddings(vault_id);
		CREATE INDEX IF NOT EXISTS idx_embeddings_vector ON embeddings USING ivfflat (vector vector_cosine_ops);
		CREATE INDEX IF NOT EXISTS idx_sessions_last_active_at ON sessions(last_active_at);
		CREATE INDEX IF NOT EXISTS idx_messages_session_created ON messages(session_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_agents_vault_name ON agents(vault_id, name);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}
