package validator

import (
	"fmt"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/widgets"
)

// identityFields are form field names reserved for the student identity.
var identityFields = map[string]bool{
	"class":       true,
	"nickname":    true,
	"roll_number": true,
	"action":      true,
}

// ExamValidator checks the structural invariants of an exam document.
type ExamValidator struct {
	widgets *widgets.Registry
}

// NewExamValidator reserves the form fields of custom components found in
// registry. A nil registry reserves none.
func NewExamValidator(registry *widgets.Registry) *ExamValidator {
	return &ExamValidator{widgets: registry}
}

// ownedKeys returns the item id, its derived answer keys and the form fields
// of its widget.
func (v *ExamValidator) ownedKeys(item models.Item) []string {
	id := item.Base().ID
	keys := append([]string{id}, models.DerivedKeys(item)...)
	if custom, ok := item.(*models.CustomItem); ok && v.widgets != nil {
		keys = append(keys, v.widgets.FormFields(custom.Component, id)...)
	}
	return keys
}

// ValidateDocument returns every problem found in the document. Unknown item
// types are not reported here; the form renders a warning for them instead.
func (v *ExamValidator) ValidateDocument(doc *models.ExamDocument) ValidationErrors {
	var errs ValidationErrors

	if len(doc.Sections) == 0 {
		errs.Add("sections", "min", "must contain at least one section", 0)
	}

	seen := make(map[string]bool)
	owners := make(map[string]string)
	for si, section := range doc.Sections {
		if section.Part < 0 || section.Part > models.MaxPart {
			field := fmt.Sprintf("sections[%d].part", si)
			errs.Add(field, "part_range", fmt.Sprintf("must be between 1 and %d", models.MaxPart), section.Part)
		}

		for ii, item := range section.Items {
			field := fmt.Sprintf("sections[%d].items[%d]", si, ii)
			id := item.Base().ID

			if id == "" {
				errs.Add(field+".id", "required", "is required", id)
				continue
			}
			if identityFields[id] {
				errs.Add(field+".id", "reserved_id", "is reserved for the student form", id)
			}
			if seen[id] {
				errs.Add(field+".id", "unique", "must be unique", id)
				continue
			}
			seen[id] = true

			// Keys derived from different items must never share a name.
			for _, key := range v.ownedKeys(item) {
				if owner, taken := owners[key]; taken && owner != id {
					errs.Add(field+".id", "unique_key", fmt.Sprintf("key %q collides with item %q", key, owner), id)
					continue
				}
				owners[key] = id
			}

			errs = append(errs, v.validateItem(field, item)...)
		}
	}

	return errs
}

func (v *ExamValidator) validateItem(field string, item models.Item) ValidationErrors {
	var errs ValidationErrors

	switch it := item.(type) {
	case *models.MCQItem:
		if len(it.Options) == 0 {
			errs.Add(field+".options", "min", "must have at least 1 option", len(it.Options))
		}
		if it.Answer != nil && !contains(it.Options, *it.Answer) {
			errs.Add(field+".answer", "oneof", "must be one of the options", *it.Answer)
		}
	case *models.GCFFactorizationItem:
		errs = append(errs, validateOperands(field, it.GCFOperands)...)
	case *models.GCFSubtractionItem:
		errs = append(errs, validateOperands(field, it.GCFOperands)...)
	case *models.GCFDivisionItem:
		errs = append(errs, validateOperands(field, it.GCFOperands)...)
	case *models.CustomItem:
		if it.Component == "" {
			errs.Add(field+".component", "required", "is required", it.Component)
		}
	}

	if points := item.Base().Points; points != nil && *points < 0 {
		errs.Add(field+".points", "min", "must be at least 0", *points)
	}

	return errs
}

func validateOperands(field string, ops models.GCFOperands) ValidationErrors {
	var errs ValidationErrors
	if ops.Num1 < 1 {
		errs.Add(field+".num1", "min", "must be at least 1", ops.Num1)
	}
	if ops.Num2 < 1 {
		errs.Add(field+".num2", "min", "must be at least 1", ops.Num2)
	}
	return errs
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
