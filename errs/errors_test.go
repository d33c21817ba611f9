package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidArgumentErrorUnwraps(t *testing.T) {
	err := &InvalidArgumentError{Field: "K", Reason: "must be >= 0"}
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Contains(t, err.Error(), "K")
	assert.Contains(t, err.Error(), "must be >= 0")
}

func TestInvariantErrorUnwraps(t *testing.T) {
	err := &InvariantError{Check: "SA permutation"}
	assert.True(t, errors.Is(err, ErrInternalInvariant))
	assert.Contains(t, err.Error(), "SA permutation")
}
