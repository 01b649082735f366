package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
)

// SubmissionRepository archives submissions for later review
type SubmissionRepository interface {
	Create(ctx context.Context, record *models.SubmissionRecord) error
	List(ctx context.Context, filters SubmissionFilters) ([]*models.SubmissionRecord, int64, error)
}
