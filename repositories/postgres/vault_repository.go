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

// VaultRepository implements repositories.VaultRepository.
type VaultRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewVaultRepository(db *DB, logger *zap.Logger) repositories.VaultRepository {
	return &VaultRepository{db: db, logger: logger}
}

func (r *VaultRepository) Create(ctx context.Context, vault *models.Vault) error {
	query := `
		INSERT INTO vaults (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query, vault.ID, vault.Name, vault.Description, vault.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict(fmt.Sprintf("vault %q already exists", vault.Name))
		}
		return domain.Internal("create vault", err)
	}
	r.logger.Debug("vault created", zap.String("id", vault.ID.String()), zap.String("name", vault.Name))
	return nil
}

func (r *VaultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vault, error) {
	query := `
		SELECT v.id, v.name, v.description, v.created_at,
		       COUNT(d.id) AS document_count
		FROM vaults v
		LEFT JOIN documents d ON d.vault_id = v.id
		WHERE v.id = $1
		GROUP BY v.id
	`
	executor := GetExecutor(ctx, r.db)
	vault := &models.Vault{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&vault.ID, &vault.Name, &vault.Description, &vault.CreatedAt, &vault.DocumentCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFound(fmt.Sprintf("vault %s not found", id))
		}
		return nil, domain.Internal("get vault", err)
	}
	return vault, nil
}

func (r *VaultRepository) GetByName(ctx context.Context, name string) (*models.Vault, error) {
	query := `SELECT id, name, description, created_at FROM vaults WHERE name = $1`
	executor := GetExecutor(ctx, r.db)
	vault := &models.Vault{}
	err := executor.QueryRowContext(ctx, query, name).Scan(&vault.ID, &vault.Name, &vault.Description, &vault.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFound(fmt.Sprintf("vault %q not found", name))
		}
		return nil, domain.Internal("get vault by name", err)
	}
	return vault, nil
}

func (r *VaultRepository) List(ctx context.Context, limit, offset int) ([]*models.Vault, error) {
	query := `
		SELECT v.id, v.name, v.description, v.created_at,
		       COUNT(d.id) AS document_count
		FROM vaults v
		LEFT JOIN documents d ON d.vault_id = v.id
		GROUP BY v.id
		ORDER BY v.created_at DESC
		LIMIT $1 OFFSET $2
	`
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, domain.Internal("list vaults", err)
	}
	defer rows.Close()

	var vaults []*models.Vault
	for rows.Next() {
		v := &models.Vault{}
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.CreatedAt, &v.DocumentCount); err != nil {
			return nil, domain.Internal("scan vault", err)
		}
		vaults = append(vaults, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal("iterate vaults", err)
	}
	return vaults, nil
}

func (r *VaultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM vaults WHERE id = $1`
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return domain.Internal("delete vault", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Internal("rows affected", err)
	}
	if rowsAffected == 0 {
		return domain.NotFound(fmt.Sprintf("vault %s not found", id))
	}
	r.logger.Debug("vault deleted", zap.String("id", id.String()))
	return nil
}
