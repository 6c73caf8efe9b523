package postgres

import (
	"context"
	"database/sql"

	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// SessionRepository implements repositories.SessionRepository.
type SessionRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewSessionRepository(db *DB, logger *zap.Logger) repositories.SessionRepository {
	return &SessionRepository{db: db, logger: logger}
}

// GetOrCreate returns the existing session for id, creating it (and
// bumping last_active_at) if it doesn't exist yet.
func (r *SessionRepository) GetOrCreate(ctx context.Context, id string, userID *string) (*models.Session, error) {
	executor := GetExecutor(ctx, r.db)

	session := &models.Session{}
	err := executor.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, last_active_at FROM sessions WHERE id = $1`, id,
	).Scan(&session.ID, &session.UserID, &session.CreatedAt, &session.LastActiveAt)
	if err == nil {
		return session, nil
	}
	if err != sql.ErrNoRows {
		return nil, domain.Internal("get session", err)
	}

	session = models.NewSession(id, userID)
	_, err = executor.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, last_active_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		session.ID, session.UserID, session.CreatedAt, session.LastActiveAt,
	)
	if err != nil {
		return nil, domain.Internal("create session", err)
	}

	// Another concurrent request may have created it first; re-fetch to
	// get the authoritative row.
	err = executor.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, last_active_at FROM sessions WHERE id = $1`, id,
	).Scan(&session.ID, &session.UserID, &session.CreatedAt, &session.LastActiveAt)
	if err != nil {
		return nil, domain.Internal("refetch session", err)
	}

	r.logger.Debug("session created", zap.String("id", id))
	return session, nil
}

func (r *SessionRepository) TouchLastActive(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx,
		`UPDATE sessions SET last_active_at = now() WHERE id = $1`, id,
	)
	if err != nil {
		return domain.Internal("touch session", err)
	}
	return nil
}
