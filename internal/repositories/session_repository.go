package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
)

// SessionRepository stores one AnswerState per browser session.
type SessionRepository interface {
	// Get returns nil without error when the session does not exist or has
	// expired.
	Get(ctx context.Context, sessionID string) (*models.AnswerState, error)
	Save(ctx context.Context, state *models.AnswerState) error
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context) error
}
