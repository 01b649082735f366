package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-form-service/internal/events"
	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/repositories"
	"github.com/SAP-F-2025/exam-form-service/internal/sheets"
	"github.com/SAP-F-2025/exam-form-service/internal/storage"
	"github.com/SAP-F-2025/exam-form-service/internal/validator"
)

// TimestampLayout is the submission timestamp written to files and sheets.
const TimestampLayout = "2006-01-02 15:04:05"

// SubmissionFiles stores submission documents. storage.SubmissionStore
// satisfies it.
type SubmissionFiles interface {
	Write(name string, sub *models.Submission) error
	Open(name string) (io.ReadCloser, error)
}

type SubmissionResult struct {
	FileName    string        `json:"file_name,omitempty"`
	Total       float64       `json:"total"`
	MaxScore    float64       `json:"max_score"`
	Scores      models.Scores `json:"scores"`
	FileWritten bool          `json:"file_written"`
	RowAppended bool          `json:"row_appended"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

type SubmissionService interface {
	// Submit validates the identity, scores the answers, writes the file and
	// appends the score row. When only one of the two writes succeeds both a
	// result and a *PipelineError are returned.
	Submit(ctx context.Context, state *models.AnswerState) (*SubmissionResult, error)
	// OpenSubmission opens the last file written for this session.
	OpenSubmission(state *models.AnswerState, name string) (io.ReadCloser, error)
}

// SubmissionDeps are the collaborators of the submission pipeline. Publisher
// and Archive are optional.
type SubmissionDeps struct {
	Validator *validator.Validator
	Scoring   ScoringService
	Files     SubmissionFiles
	Sheet     sheets.ScoreSheet
	Publisher events.EventPublisher
	Archive   repositories.SubmissionRepository
	Logger    *slog.Logger
}

type submissionService struct {
	SubmissionDeps
	serviceLogger *ServiceLogger
	now           func() time.Time
}

func NewSubmissionService(deps SubmissionDeps) SubmissionService {
	return &submissionService{
		SubmissionDeps: deps,
		serviceLogger:  NewServiceLogger(deps.Logger, LogConfig{Service: "exam-form-service", Component: "submission"}),
		now:            time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, state *models.AnswerState) (result *SubmissionResult, err error) {
	op := s.serviceLogger.WithOperation(ctx, "submit", state.SessionID)
	defer func() { op.LogResult("submission", err) }()

	identity := state.Identity
	if err := s.Validator.ValidateIdentity(&identity); err != nil {
		return nil, err
	}
	state.Identity = identity

	answers, scores, maxScore := s.Scoring.Score(state)
	submittedAt := s.now()
	sub := &models.Submission{
		RollNumber: identity.RollNumber,
		Nickname:   identity.Nickname,
		Class:      identity.Class,
		Timestamp:  submittedAt.Format(TimestampLayout),
		Answers:    answers,
		Scores:     scores,
		MaxScore:   maxScore,
	}

	result = &SubmissionResult{
		Total:       RoundScore(scores.Total),
		MaxScore:    RoundScore(maxScore),
		Scores:      scores,
		SubmittedAt: submittedAt,
	}
	failures := make(map[string]error)

	fileName := storage.FileName(sub, submittedAt)
	if werr := s.Files.Write(fileName, sub); werr != nil {
		failures[StageFile] = werr
	} else {
		result.FileWritten = true
		result.FileName = fileName
		state.LastSubmission = fileName
	}
	s.serviceLogger.LogStage(ctx, StageFile, fileName, failures[StageFile])

	if aerr := s.Sheet.AppendRow(ctx, identity.Class, sub.ScoreRow()); aerr != nil {
		failures[StageSheet] = aerr
	} else {
		result.RowAppended = true
	}
	s.serviceLogger.LogStage(ctx, StageSheet, fileName, failures[StageSheet])

	s.publish(ctx, state.SessionID, sub, result)
	s.archive(ctx, sub, result)

	if len(failures) > 0 {
		return result, &PipelineError{Failures: failures}
	}
	return result, nil
}

func (s *submissionService) publish(ctx context.Context, sessionID string, sub *models.Submission, result *SubmissionResult) {
	if s.Publisher == nil {
		return
	}
	event := events.NewSubmissionEvent(events.SubmissionEvent{
		SessionID:   sessionID,
		Class:       sub.Class,
		Nickname:    sub.Nickname,
		RollNumber:  sub.RollNumber,
		FileName:    result.FileName,
		Total:       result.Total,
		MaxScore:    result.MaxScore,
		SubmittedAt: result.SubmittedAt,
		FileWritten: result.FileWritten,
		RowAppended: result.RowAppended,
	})
	if err := s.Publisher.PublishEvent(ctx, event); err != nil {
		s.serviceLogger.Warn(ctx, "Failed to publish submission event", "session_id", sessionID, "error", err)
	}
}

func (s *submissionService) archive(ctx context.Context, sub *models.Submission, result *SubmissionResult) {
	if s.Archive == nil {
		return
	}
	record, err := models.NewSubmissionRecord(sub, result.FileName, result.SubmittedAt)
	if err == nil {
		err = s.Archive.Create(ctx, record)
	}
	if err != nil {
		s.serviceLogger.Warn(ctx, "Failed to archive submission", "roll_number", sub.RollNumber, "error", err)
	}
}

func (s *submissionService) OpenSubmission(state *models.AnswerState, name string) (io.ReadCloser, error) {
	if name == "" || name != state.LastSubmission {
		return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, name)
	}
	rc, err := s.Files.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, storage.ErrInvalidName) {
			return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, name)
		}
		return nil, err
	}
	return rc, nil
}
