package postgres

import (
	"context"

	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// MessageRepository implements repositories.MessageRepository.
type MessageRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewMessageRepository(db *DB, logger *zap.Logger) repositories.MessageRepository {
	return &MessageRepository{db: db, logger: logger}
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query, msg.ID, msg.SessionID, string(msg.Role), msg.Content, msg.CreatedAt)
	if err != nil {
		return domain.Internal("create message", err)
	}
	return nil
}

// RecentBySession returns up to limit most recent messages for a session,
// oldest first, ready to drop straight into a prompt.
func (r *MessageRepository) RecentBySession(ctx context.Context, sessionID string, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, domain.Internal("list messages", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		var role string
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, domain.Internal("scan message", err)
		}
		m.Role = models.Role(role)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal("iterate messages", err)
	}

	// Rows come back newest-first; reverse in place for chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
