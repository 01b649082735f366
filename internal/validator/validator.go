package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/exam-form-service/internal/errors"
	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/widgets"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct tag validation with the exam document checks.
type Validator struct {
	structValidator *validator.Validate
	examValidator   *ExamValidator
	classes         []string
}

// New creates a validator that accepts the given class names for the
// class_name rule.
func New(classes ...string) *Validator {
	v := &Validator{
		structValidator: validator.New(),
		examValidator:   NewExamValidator(widgets.DefaultRegistry()),
		classes:         classes,
	}

	v.registerCustomValidators()

	return v
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures into ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := errors.FromValidator(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateIdentity normalizes and validates the student identity fields.
func (v *Validator) ValidateIdentity(identity *models.Identity) error {
	identity.Normalize()
	return v.Validate(identity)
}

// WithWidgets makes exam validation reserve the form fields of the
// components in registry instead of the built-in ones.
func (v *Validator) WithWidgets(registry *widgets.Registry) *Validator {
	v.examValidator = NewExamValidator(registry)
	return v
}

// Exam returns the exam document validator
func (v *Validator) Exam() *ExamValidator {
	return v.examValidator
}

// Classes returns the accepted class names in configuration order.
func (v *Validator) Classes() []string {
	out := make([]string, len(v.classes))
	copy(out, v.classes)
	return out
}

func (v *Validator) registerCustomValidators() {
	v.structValidator.RegisterValidation("class_name", v.validateClassName)

	// Report fields by their json names
	v.structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func (v *Validator) validateClassName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, class := range v.classes {
		if class == value {
			return true
		}
	}
	return false
}
