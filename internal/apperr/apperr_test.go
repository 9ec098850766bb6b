package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("missing")))
	assert.Equal(t, CodeDuplicateKey, CodeOf(DuplicateKey("taken")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeInternal, CodeOf(nil))
}

func TestCodeOfUnwrapsChains(t *testing.T) {
	err := fmt.Errorf("handler: %w", Forbidden("not yours"))
	assert.Equal(t, CodeForbidden, CodeOf(err))
}

func TestWrapKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)

	assert.Equal(t, "internal error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
