package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/repositories"
	"github.com/SAP-F-2025/exam-form-service/internal/sheets"
)

const exportPageSize = 500

// ExportService rebuilds score sheets from the submission archive, for
// example after rows failed to reach the spreadsheet.
type ExportService interface {
	ExportResults(ctx context.Context, w io.Writer, classes []string) (int, error)
}

type exportService struct {
	archive repositories.SubmissionRepository
	logger  *slog.Logger
}

func NewExportService(archive repositories.SubmissionRepository, logger *slog.Logger) ExportService {
	return &exportService{archive: archive, logger: logger}
}

// ExportResults writes one worksheet per class with every archived row,
// oldest first, and returns the number of rows written.
func (s *exportService) ExportResults(ctx context.Context, w io.Writer, classes []string) (int, error) {
	rows := make(map[string][][]interface{}, len(classes))
	count := 0

	for _, class := range classes {
		filters := repositories.SubmissionFilters{
			Class:     class,
			SortBy:    "submitted_at",
			SortOrder: "asc",
			Limit:     exportPageSize,
		}
		for {
			records, total, err := s.archive.List(ctx, filters)
			if err != nil {
				return 0, fmt.Errorf("failed to list submissions for %s: %w", class, err)
			}
			for _, record := range records {
				row, err := recordRow(record)
				if err != nil {
					return 0, err
				}
				rows[class] = append(rows[class], row)
			}
			filters.Offset += len(records)
			if len(records) == 0 || int64(filters.Offset) >= total {
				break
			}
		}
		count += len(rows[class])
		s.logger.Debug("Exported class results", "class", class, "rows", len(rows[class]))
	}

	if err := sheets.WriteWorkbook(w, classes, rows); err != nil {
		return 0, err
	}
	return count, nil
}

// recordRow rebuilds the score sheet row of an archived submission.
func recordRow(record *models.SubmissionRecord) ([]interface{}, error) {
	var scores models.Scores
	if err := json.Unmarshal(record.Scores, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode scores of submission %d: %w", record.ID, err)
	}
	sub := models.Submission{
		RollNumber: record.RollNumber,
		Nickname:   record.Nickname,
		Class:      record.Class,
		Timestamp:  record.SubmittedAt.Format(TimestampLayout),
		Scores:     scores,
	}
	return sub.ScoreRow(), nil
}
