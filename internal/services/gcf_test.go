package services

import (
	"testing"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFirstTwoFactors(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{1, []int{1}},
		{2, []int{1, 2}},
		{7, []int{1, 7}},
		{9, []int{1, 3}},
		{12, []int{1, 2}},
		{150, []int{1, 2}},
		{0, []int{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FirstTwoFactors(tt.n), "n=%d", tt.n)
	}
}

func TestFirstTwoFactors_SmallestDivisors(t *testing.T) {
	for n := 1; n <= 500; n++ {
		var divisors []int
		for d := 1; d <= n && len(divisors) < 2; d++ {
			if n%d == 0 {
				divisors = append(divisors, d)
			}
		}

		got := FirstTwoFactors(n)
		assert.Equal(t, divisors, got, "n=%d", n)
		assert.LessOrEqual(t, len(got), 2)
		if len(got) == 2 {
			assert.Less(t, got[0], got[1])
		}
	}
}

func TestFactorHint(t *testing.T) {
	assert.Equal(t, "e.g., 1, 2...", FactorHint(12))
	assert.Equal(t, "e.g., 1...", FactorHint(1))
}

func TestGCD(t *testing.T) {
	assert.Equal(t, 50, GCD(150, 100))
	assert.Equal(t, 3, GCD(9, 6))
	assert.Equal(t, 1, GCD(7, 5))
	assert.Equal(t, 4, GCD(-8, 12))
}

func TestParseSubtractionStep(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "9-6", want: "9 - 6 = 3"},
		{raw: " 6 - 3 ", want: "6 - 3 = 3"},
		{raw: "3-6", want: "3 - 6 = -3"},
		{raw: "abc", wantErr: ErrInvalidStepFormat},
		{raw: "9-6-3", wantErr: ErrInvalidStepFormat},
		{raw: "9/6", wantErr: ErrInvalidStepFormat},
		{raw: "", wantErr: ErrInvalidStepFormat},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSubtractionStep(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDivisionStep(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "150/100", want: "150 ÷ 100 = 1 R 50"},
		{raw: "100/50", want: "100 ÷ 50 = 2 R 0"},
		{raw: "7/-2", want: "7 ÷ -2 = -4 R -1"},
		{raw: "5/0", wantErr: ErrDivisionByZero},
		{raw: "5/x", wantErr: ErrInvalidStepFormat},
		{raw: "5-1", wantErr: ErrInvalidStepFormat},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDivisionStep(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddSubtractionStep(t *testing.T) {
	item := &models.GCFSubtractionItem{
		ItemBase:    models.ItemBase{ID: "q2", Type: models.ItemGCFSubtraction},
		GCFOperands: models.GCFOperands{Num1: 6, Num2: 9},
	}
	scope := models.NewAnswerState("s").Item("q2")
	scope.InitSteps()

	scope.Set(models.SuffixInput, "abc")
	assert.False(t, AddSubtractionStep(scope, item))
	assert.Empty(t, scope.Steps())
	assert.Equal(t, "❌ Invalid format. Use e.g., 9-6", scope.Get(models.SuffixError))
	assert.Equal(t, "abc", scope.Get(models.SuffixInput))

	scope.Set(models.SuffixInput, "9-6")
	assert.True(t, AddSubtractionStep(scope, item))
	assert.Equal(t, []string{"9 - 6 = 3"}, scope.Steps())
	assert.Empty(t, scope.Get(models.SuffixError))
	assert.Empty(t, scope.Get(models.SuffixInput))
}

func TestAddDivisionStep(t *testing.T) {
	item := &models.GCFDivisionItem{
		ItemBase:    models.ItemBase{ID: "q3", Type: models.ItemGCFDivision},
		GCFOperands: models.GCFOperands{Num1: 150, Num2: 100},
	}
	scope := models.NewAnswerState("s").Item("q3")

	scope.Set(models.SuffixInput, "150/100")
	assert.True(t, AddDivisionStep(scope, item))
	assert.Equal(t, []string{"150 ÷ 100 = 1 R 50"}, scope.Steps())

	scope.Set(models.SuffixInput, "5/0")
	assert.False(t, AddDivisionStep(scope, item))
	assert.Equal(t, []string{"150 ÷ 100 = 1 R 50"}, scope.Steps())
	assert.Contains(t, scope.Get(models.SuffixError), "Division by zero")

	scope.Set(models.SuffixInput, "150-100")
	assert.False(t, AddDivisionStep(scope, item))
	assert.Equal(t, "❌ Invalid format. Use e.g., 150/100", scope.Get(models.SuffixError))
}

func TestRemoveLastStep(t *testing.T) {
	scope := models.NewAnswerState("s").Item("q2")

	assert.NotPanics(t, func() {
		assert.False(t, RemoveLastStep(scope))
	})
	assert.Empty(t, scope.Steps())
	assert.Empty(t, scope.Get(models.SuffixError))

	scope.PushStep("9 - 6 = 3")
	scope.PushStep("6 - 3 = 3")
	assert.True(t, RemoveLastStep(scope))
	assert.Equal(t, []string{"9 - 6 = 3"}, scope.Steps())
}
