package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// VaultService is the entity service for vaults.
type VaultService struct {
	repos  *repositories.Repositories
	txs    repositories.TransactionManager
	logger *zap.Logger
}

func NewVaultService(repos *repositories.Repositories, txs repositories.TransactionManager, logger *zap.Logger) *VaultService {
	return &VaultService{repos: repos, txs: txs, logger: logger}
}

func (s *VaultService) Create(ctx context.Context, name, description string) (*models.Vault, error) {
	vault := models.NewVault(name, description)
	if err := s.repos.Vaults.Create(ctx, vault); err != nil {
		return nil, err
	}
	return vault, nil
}

func (s *VaultService) Get(ctx context.Context, id uuid.UUID) (*models.Vault, error) {
	return s.repos.Vaults.GetByID(ctx, id)
}

func (s *VaultService) List(ctx context.Context, limit, offset int) ([]*models.Vault, error) {
	return s.repos.Vaults.List(ctx, limit, offset)
}

// Delete cascades to the vault's documents, chunks and embeddings before
// removing the vault row: vector-store rows go first so a crash between
// steps still converges to fully deleted on retry (the vault row, if it
// survives, still owns nothing retrievable).
func (s *VaultService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repos.Vaults.GetByID(ctx, id); err != nil {
		return err
	}
	return s.txs.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		if err := s.repos.Vectors.DeleteByVault(ctx, id); err != nil {
			return err
		}
		return s.repos.Vaults.Delete(ctx, id)
	})
}
