package services

import (
	"context"

	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// SessionService is the entity service for chat sessions.
type SessionService struct {
	repos  *repositories.Repositories
	logger *zap.Logger
}

func NewSessionService(repos *repositories.Repositories, logger *zap.Logger) *SessionService {
	return &SessionService{repos: repos, logger: logger}
}

func (s *SessionService) GetOrCreate(ctx context.Context, id string, userID *string) (*models.Session, error) {
	return s.repos.Sessions.GetOrCreate(ctx, id, userID)
}
