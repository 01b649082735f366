package validator

import (
	"github.com/SAP-F-2025/exam-form-service/internal/errors"
)

type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors
