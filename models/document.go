package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an immutable ingested text unit, owned by at most one Vault.
// Content itself is not retained on the struct once chunked; Metadata is
// free-form and stays on the document row. Only the vault id, title and
// source are denormalized onto each Embedding at ingest time.
type Document struct {
	ID        uuid.UUID              `json:"id" db:"id"`
	VaultID   *uuid.UUID             `json:"vault_id,omitempty" db:"vault_id"`
	Title     string                 `json:"title,omitempty" db:"title"`
	Source    string                 `json:"source,omitempty" db:"source"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`

	// ChunkCount is computed at query time, not stored.
	ChunkCount int `json:"chunk_count" db:"-"`
}

func (Document) TableName() string {
	return "documents"
}

func NewDocument(vaultID *uuid.UUID, title, source string, metadata map[string]interface{}) *Document {
	return &Document{
		ID:        uuid.New(),
		VaultID:   vaultID,
		Title:     title,
		Source:    source,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}
