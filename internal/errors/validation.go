package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes one rejected field. Field is the form field name
// for student input, or a dotted path such as sections[0].items[2].id for
// exam documents.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidationErrors is returned as a single error so callers can errors.As it.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	switch len(ve) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + ve[0].Error()
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Add appends a failure for field under the given rule.
func (ve *ValidationErrors) Add(field, rule, message string, value interface{}) {
	*ve = append(*ve, ValidationError{Field: field, Message: message, Value: value, Rule: rule})
}

// Messages renders each error the way the form shows it, using the student
// facing label of identity fields.
func (ve ValidationErrors) Messages() []string {
	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		messages = append(messages, fmt.Sprintf("%s %s", fieldLabel(e.Field), e.Message))
	}
	return messages
}

// ForField returns the first error recorded for the named field.
func (ve ValidationErrors) ForField(field string) (ValidationError, bool) {
	for _, e := range ve {
		if e.Field == field {
			return e, true
		}
	}
	return ValidationError{}, false
}

// FromValidator converts struct tag failures. It returns nil when err does
// not come from go-playground/validator.
func FromValidator(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), fe.Tag(), ruleMessage(fe), fe.Value())
	}
	return out
}

var labels = map[string]string{
	"class":       "Class",
	"nickname":    "Nickname",
	"roll_number": "Roll number",
}

func fieldLabel(field string) string {
	if label, ok := labels[field]; ok {
		return label
	}
	return field
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "class_name":
		return "must be one of the listed classes"
	default:
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}
