package models

import (
	"time"

	"github.com/google/uuid"
)

// Agent is a named configuration (system prompt + vault binding) used to
// parameterize chat turns. Unique on (Name, VaultID).
type Agent struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	VaultID      uuid.UUID `json:"vault_id" db:"vault_id"`
	SystemPrompt string    `json:"system_prompt" db:"system_prompt"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (Agent) TableName() string {
	return "agents"
}

func NewAgent(name string, vaultID uuid.UUID, systemPrompt string) *Agent {
	return &Agent{
		ID:           uuid.New(),
		Name:         name,
		VaultID:      vaultID,
		SystemPrompt: systemPrompt,
		CreatedAt:    time.Now().UTC(),
	}
}
