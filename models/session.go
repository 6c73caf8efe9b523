package models

import (
	"time"
)

// Session is a conversation thread identified by a caller-chosen id.
// It owns an append-only Message log.
type Session struct {
	ID           string    `json:"id" db:"id"`
	UserID       *string   `json:"user_id,omitempty" db:"user_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	LastActiveAt time.Time `json:"last_active_at" db:"last_active_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func NewSession(id string, userID *string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		UserID:       userID,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}
