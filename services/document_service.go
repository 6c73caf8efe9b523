package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// DocumentService is the entity service for documents.
type DocumentService struct {
	repos  *repositories.Repositories
	txs    repositories.TransactionManager
	logger *zap.Logger
}

func NewDocumentService(repos *repositories.Repositories, txs repositories.TransactionManager, logger *zap.Logger) *DocumentService {
	return &DocumentService{repos: repos, txs: txs, logger: logger}
}

func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return s.repos.Documents.GetByID(ctx, id)
}

func (s *DocumentService) List(ctx context.Context, vaultID *uuid.UUID, limit, offset int) ([]*models.Document, error) {
	return s.repos.Documents.List(ctx, vaultID, limit, offset)
}

func (s *DocumentService) Count(ctx context.Context, vaultID *uuid.UUID) (int, error) {
	return s.repos.Documents.Count(ctx, vaultID)
}

// Delete removes the document row along with its chunks and embeddings.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repos.Documents.GetByID(ctx, id); err != nil {
		return err
	}
	return s.txs.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		if err := s.repos.Vectors.DeleteByDocument(ctx, id); err != nil {
			return err
		}
		return s.repos.Documents.Delete(ctx, id)
	})
}
