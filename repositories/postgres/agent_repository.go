package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// AgentRepository implements repositories.AgentRepository.
type AgentRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewAgentRepository(db *DB, logger *zap.Logger) repositories.AgentRepository {
	return &AgentRepository{db: db, logger: logger}
}

func (r *AgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	query := `
		INSERT INTO agents (id, name, vault_id, system_prompt, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query, agent.ID, agent.Name, agent.VaultID, agent.SystemPrompt, agent.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict(fmt.Sprintf("agent %q already exists for this vault", agent.Name))
		}
		return domain.Internal("create agent", err)
	}
	r.logger.Debug("agent created", zap.String("id", agent.ID.String()))
	return nil
}

func (r *AgentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	query := `SELECT id, name, vault_id, system_prompt, created_at FROM agents WHERE id = $1`
	executor := GetExecutor(ctx, r.db)
	agent := &models.Agent{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&agent.ID, &agent.Name, &agent.VaultID, &agent.SystemPrompt, &agent.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFound(fmt.Sprintf("agent %s not found", id))
		}
		return nil, domain.Internal("get agent", err)
	}
	return agent, nil
}

func (r *AgentRepository) List(ctx context.Context, vaultID *uuid.UUID, limit, offset int) ([]*models.Agent, error) {
	executor := GetExecutor(ctx, r.db)

	var (
		rows *sql.Rows
		err  error
	)
	if vaultID != nil {
		rows, err = executor.QueryContext(ctx, `
			SELECT id, name, vault_id, system_prompt, created_at
			FROM agents
			WHERE vault_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, *vaultID, limit, offset)
	} else {
		rows, err = executor.QueryContext(ctx, `
			SELECT id, name, vault_id, system_prompt, created_at
			FROM agents
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, domain.Internal("list agents", err)
	}
	defer rows.Close()

	var agents []*models.Agent
	for rows.Next() {
		a := &models.Agent{}
		if err := rows.Scan(&a.ID, &a.Name, &a.VaultID, &a.SystemPrompt, &a.CreatedAt); err != nil {
			return nil, domain.Internal("scan agent", err)
		}
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal("iterate agents", err)
	}
	return agents, nil
}

func (r *AgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM agents WHERE id = $1`
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return domain.Internal("delete agent", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Internal("rows affected", err)
	}
	if rowsAffected == 0 {
		return domain.NotFound(fmt.Sprintf("agent %s not found", id))
	}
	r.logger.Debug("agent deleted", zap.String("id", id.String()))
	return nil
}
