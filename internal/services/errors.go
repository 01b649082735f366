package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/exam-form-service/internal/errors"
	"github.com/SAP-F-2025/exam-form-service/internal/sheets"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Exam specific errors
	ErrExamInvalid      = errors.New("exam document is invalid")
	ErrItemNotFound     = errors.New("item not found")
	ErrItemNotSteppable = errors.New("item does not take steps")
	ErrUnknownAction    = errors.New("unknown form action")

	// Step entry errors
	ErrInvalidStepFormat = errors.New("invalid step format")
	ErrDivisionByZero    = errors.New("division by zero")

	// Submission errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidDrawing     = errors.New("drawing is not a png data url")
	ErrDrawingTooLarge    = errors.New("drawing exceeds size limit")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// Pipeline stages reported by PipelineError.
const (
	StageFile  = "file"
	StageSheet = "sheet"
)

// PipelineError reports which halves of a submission failed. A stage that is
// absent from Failures succeeded.
type PipelineError struct {
	Failures map[string]error
}

func (pe *PipelineError) Error() string {
	parts := make([]string, 0, len(pe.Failures))
	for _, stage := range []string{StageFile, StageSheet} {
		if err, ok := pe.Failures[stage]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v", stage, err))
		}
	}
	return "submission incomplete: " + strings.Join(parts, "; ")
}

func (pe *PipelineError) Unwrap() []error {
	errs := make([]error, 0, len(pe.Failures))
	for _, err := range pe.Failures {
		errs = append(errs, err)
	}
	return errs
}

func (pe *PipelineError) Failed(stage string) bool {
	_, ok := pe.Failures[stage]
	return ok
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrSubmissionNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBadRequest checks if error is caused by a malformed form action
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrItemNotSteppable) ||
		errors.Is(err, ErrUnknownAction) ||
		errors.Is(err, ErrInvalidDrawing) ||
		errors.Is(err, ErrDrawingTooLarge)
}

// IsPipeline checks if error is a partial submission failure
func IsPipeline(err error) bool {
	var pe *PipelineError
	return errors.As(err, &pe)
}

// IsWorksheetNotFound checks if the score sheet lacks the class worksheet
func IsWorksheetNotFound(err error) bool {
	return errors.Is(err, sheets.ErrWorksheetNotFound)
}
