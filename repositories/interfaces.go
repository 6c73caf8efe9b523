package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/ragvault/models"
)

// Transaction represents an active database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	Context() context.Context
}

// TransactionManager runs a function inside a transaction, committing on
// success and rolling back on error.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// VaultRepository persists Vault rows.
type VaultRepository interface {
	Create(ctx context.Context, vault *models.Vault) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vault, error)
	GetByName(ctx context.Context, name string) (*models.Vault, error)
	List(ctx context.Context, limit, offset int) ([]*models.Vault, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentRepository persists Document rows and their Chunks.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context, vaultID *uuid.UUID, limit, offset int) ([]*models.Document, error)
	Count(ctx context.Context, vaultID *uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateChunks(ctx context.Context, chunks []*models.Chunk) error
}

// SessionRepository persists chat Session rows.
type SessionRepository interface {
	GetOrCreate(ctx context.Context, id string, userID *string) (*models.Session, error)
	TouchLastActive(ctx context.Context, id string) error
}

// MessageRepository persists chat Message rows.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	RecentBySession(ctx context.Context, sessionID string, limit int) ([]*models.Message, error)
}

// AgentRepository persists Agent rows.
type AgentRepository interface {
	Create(ctx context.Context, agent *models.Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Agent, error)
	List(ctx context.Context, vaultID *uuid.UUID, limit, offset int) ([]*models.Agent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VectorMatch is one scored result of a similarity search.
type VectorMatch struct {
	ChunkID    uuid.UUID
	DocumentID uuid.UUID
	Ordinal    int
	Title      string
	Source     string
	Text       string
	Score      float64
}

// VectorStore holds embeddings and answers nearest-neighbor queries over
// them, optionally scoped to a vault.
type VectorStore interface {
	Upsert(ctx context.Context, embeddings []*models.Embedding) error
	Search(ctx context.Context, query []float32, vaultID *uuid.UUID, topK int) ([]VectorMatch, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
	DeleteByVault(ctx context.Context, vaultID uuid.UUID) error
}

// Repositories aggregates every repository the service depends on.
type Repositories struct {
	Vaults    VaultRepository
	Documents DocumentRepository
	Sessions  SessionRepository
	Messages  MessageRepository
	Agents    AgentRepository
	Vectors   VectorStore
}
