package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.OrNil())

	v.Add("title", "required")
	v.Add("price", "must be >= 0")
	v.Add("title", "ignored second message")

	err := v.OrNil()
	assert.Error(t, err)
	assert.Equal(t, "validation failed: price: must be >= 0; title: required", err.Error())
	assert.True(t, IsValidation(fmt.Errorf("create recipe: %w", err)))
	assert.False(t, IsValidation(ErrNotFound))
}

func TestNotFound(t *testing.T) {
	err := NotFound("recipe", 7)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "recipe 7 not found", err.Error())
}
