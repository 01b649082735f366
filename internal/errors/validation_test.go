package errors

import (
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs.Add("nickname", "required", "is required", "")
	assert.Equal(t, "validation failed: nickname is required", errs.Error())

	errs.Add("roll_number", "required", "is required", "")
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestValidationErrors_Messages(t *testing.T) {
	var errs ValidationErrors
	errs.Add("roll_number", "required", "is required", "")
	errs.Add("sections[0].items[1].id", "unique", "must be unique", "q1")

	assert.Equal(t, []string{
		"Roll number is required",
		"sections[0].items[1].id must be unique",
	}, errs.Messages())

	e, ok := errs.ForField("sections[0].items[1].id")
	require.True(t, ok)
	assert.Equal(t, "unique", e.Rule)
	assert.Equal(t, "q1", e.Value)

	_, ok = errs.ForField("class")
	assert.False(t, ok)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "class", Message: "must be one of the listed classes", Value: "9/9"}
	assert.Equal(t, "class must be one of the listed classes", err.Error())
}

func TestFromValidator(t *testing.T) {
	type identity struct {
		Nickname string `validate:"required"`
		Grade    int    `validate:"min=1"`
	}

	err := validator.New().Struct(identity{})
	require.Error(t, err)

	errs := FromValidator(fmt.Errorf("wrapped: %w", err))
	require.Len(t, errs, 2)
	assert.Equal(t, "Nickname", errs[0].Field)
	assert.Equal(t, "is required", errs[0].Message)
	assert.Equal(t, "required", errs[0].Rule)
	assert.Equal(t, "must be at least 1", errs[1].Message)

	assert.Nil(t, FromValidator(nil))
	assert.Nil(t, FromValidator(fmt.Errorf("plain")))
}
