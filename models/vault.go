package models

import (
	"time"

	"github.com/google/uuid"
)

// Vault is a tenant-scoped namespace that owns Documents and Agents.
type Vault struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// DocumentCount is computed at query time, not stored.
	DocumentCount int `json:"document_count" db:"-"`
}

func (Vault) TableName() string {
	return "vaults"
}

func NewVault(name, description string) *Vault {
	return &Vault{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}
