package services

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/validator"
)

// LoadExamDocument reads and validates the exam document at path.
func LoadExamDocument(path string, v *validator.Validator) (*models.ExamDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exam document: %w", err)
	}
	return ParseExamDocument(data, v)
}

// ParseExamDocument decodes an exam document and checks its invariants.
// Structural problems are returned as ValidationErrors wrapped in
// ErrExamInvalid.
func ParseExamDocument(data []byte, v *validator.Validator) (*models.ExamDocument, error) {
	var doc models.ExamDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExamInvalid, err)
	}
	if errs := v.Exam().ValidateDocument(&doc); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrExamInvalid, errs)
	}
	return &doc, nil
}
