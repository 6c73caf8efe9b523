package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// AgentService is the entity service for agents.
type AgentService struct {
	repos  *repositories.Repositories
	logger *zap.Logger
}

func NewAgentService(repos *repositories.Repositories, logger *zap.Logger) *AgentService {
	return &AgentService{repos: repos, logger: logger}
}

func (s *AgentService) Create(ctx context.Context, name string, vaultID uuid.UUID, systemPrompt string) (*models.Agent, error) {
	if _, err := s.repos.Vaults.GetByID(ctx, vaultID); err != nil {
		return nil, err
	}
	agent := models.NewAgent(name, vaultID, systemPrompt)
	if err := s.repos.Agents.Create(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *AgentService) Get(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	return s.repos.Agents.GetByID(ctx, id)
}

func (s *AgentService) List(ctx context.Context, vaultID *uuid.UUID, limit, offset int) ([]*models.Agent, error) {
	return s.repos.Agents.List(ctx, vaultID, limit, offset)
}

func (s *AgentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Agents.Delete(ctx, id)
}
