package models

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Embedding is the dense-vector representation of a Chunk, 1:1 with it.
// VaultID, Title and Source are denormalized from the owning Document at
// ingest time so that search never needs to join back to it.
type Embedding struct {
	ChunkID    uuid.UUID       `json:"chunk_id" db:"chunk_id"`
	DocumentID uuid.UUID       `json:"document_id" db:"document_id"`
	VaultID    *uuid.UUID      `json:"vault_id,omitempty" db:"vault_id"`
	Ordinal    int             `json:"ordinal" db:"ordinal"`
	Title      string          `json:"title,omitempty" db:"title"`
	Source     string          `json:"source,omitempty" db:"source"`
	Text       string          `json:"-" db:"text"`
	Vector     pgvector.Vector `json:"-" db:"vector"`
}

func (Embedding) TableName() string {
	return "embeddings"
}
