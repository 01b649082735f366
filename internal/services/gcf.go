package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
)

// FirstTwoFactors returns the first two divisors of n found by trial
// division from 1 upward. It is only used as a placeholder hint.
func FirstTwoFactors(n int) []int {
	factors := make([]int, 0, 2)
	for i := 1; i <= n; i++ {
		if n%i == 0 {
			factors = append(factors, i)
		}
		if len(factors) == 2 {
			break
		}
	}
	return factors
}

// FactorHint formats the hint shown in a factor list placeholder.
func FactorHint(n int) string {
	factors := FirstTwoFactors(n)
	parts := make([]string, len(factors))
	for i, f := range factors {
		parts[i] = strconv.Itoa(f)
	}
	return fmt.Sprintf("e.g., %s...", strings.Join(parts, ", "))
}

func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ParseSubtractionStep parses "<a>-<b>" and returns the formatted step.
func ParseSubtractionStep(raw string) (string, error) {
	a, b, err := parseOperands(raw, "-")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d - %d = %d", a, b, a-b), nil
}

// ParseDivisionStep parses "<a>/<b>" and returns the formatted step with the
// floored quotient and its remainder.
func ParseDivisionStep(raw string) (string, error) {
	a, b, err := parseOperands(raw, "/")
	if err != nil {
		return "", err
	}
	if b == 0 {
		return "", ErrDivisionByZero
	}
	q, r := floorDivMod(a, b)
	return fmt.Sprintf("%d ÷ %d = %d R %d", a, b, q, r), nil
}

func parseOperands(raw, sep string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(raw), sep)
	if len(parts) != 2 {
		return 0, 0, ErrInvalidStepFormat
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, ErrInvalidStepFormat
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, ErrInvalidStepFormat
	}
	return a, b, nil
}

// floorDivMod rounds the quotient toward negative infinity; the remainder
// takes the sign of the divisor.
func floorDivMod(a, b int) (int, int) {
	q, r := a/b, a%b
	if r != 0 && (r < 0) != (b < 0) {
		q--
		r += b
	}
	return q, r
}

// AddSubtractionStep consumes the item's pending input. On success the step
// is appended and the input and error are cleared; otherwise only the error
// is set.
func AddSubtractionStep(scope *models.ItemState, item *models.GCFSubtractionItem) bool {
	step, err := ParseSubtractionStep(scope.Get(models.SuffixInput))
	if err != nil {
		scope.Set(models.SuffixError, fmt.Sprintf("❌ Invalid format. Use e.g., %d-%d", item.Bigger(), item.Smaller()))
		return false
	}
	commitStep(scope, step)
	return true
}

// AddDivisionStep is the division counterpart of AddSubtractionStep.
func AddDivisionStep(scope *models.ItemState, item *models.GCFDivisionItem) bool {
	step, err := ParseDivisionStep(scope.Get(models.SuffixInput))
	switch {
	case err == ErrDivisionByZero:
		scope.Set(models.SuffixError, "❌ Division by zero is not allowed.")
		return false
	case err != nil:
		scope.Set(models.SuffixError, fmt.Sprintf("❌ Invalid format. Use e.g., %d/%d", item.Bigger(), item.Smaller()))
		return false
	}
	commitStep(scope, step)
	return true
}

// RemoveLastStep pops the last step; an empty list is left alone.
func RemoveLastStep(scope *models.ItemState) bool {
	_, ok := scope.PopStep()
	return ok
}

func commitStep(scope *models.ItemState, step string) {
	scope.PushStep(step)
	scope.Set(models.SuffixInput, "")
	scope.Set(models.SuffixError, "")
}
