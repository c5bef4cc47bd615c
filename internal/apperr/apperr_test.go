package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeOK, CodeOf(nil))
	assert.Equal(t, CodeValidation, CodeOf(Validation("missing")))
	assert.Equal(t, CodeConflict, CodeOf(Conflict("taken")))
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("gone")))
	assert.Equal(t, CodeInternal, CodeOf(Internal("boom", errors.New("db"))))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("raw")))
	assert.Equal(t, CodeShortPassword, CodeOf(WithCode(CodeShortPassword, "too short")))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "", MessageOf(nil))
	assert.Equal(t, "gone", MessageOf(NotFound("gone")))

	// Raw errors never leak their text to the caller.
	assert.Equal(t, "Something went wrong", MessageOf(errors.New("pq: connection refused")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Internal("failed to save order", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "db down")

	wrapped := fmt.Errorf("outer: %w", err)
	var appErr *Error
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, CodeInternal, appErr.Code)
}
