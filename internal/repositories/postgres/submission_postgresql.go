package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/repositories"
	"gorm.io/gorm"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (s *SubmissionPostgreSQL) Create(ctx context.Context, record *models.SubmissionRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *SubmissionPostgreSQL) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.SubmissionRecord, int64, error) {
	var records []*models.SubmissionRecord
	var total int64

	// apply filter first
	query := s.db.WithContext(ctx).Model(&models.SubmissionRecord{})
	query = applySubmissionFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = applySubmissionPagination(query, filters)

	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func applySubmissionFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.Class != "" {
		query = query.Where("class = ?", filters.Class)
	}
	if filters.RollNumber != "" {
		query = query.Where("roll_number = ?", filters.RollNumber)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	return query
}

var submissionSortColumns = map[string]bool{
	"submitted_at": true,
	"total":        true,
	"roll_number":  true,
}

func applySubmissionPagination(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	sortBy := "submitted_at"
	if submissionSortColumns[filters.SortBy] {
		sortBy = filters.SortBy
	}
	sortOrder := "desc"
	if filters.SortOrder == "asc" {
		sortOrder = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
