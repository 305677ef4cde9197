package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := NotFound("path %q", `Software\Missing`)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAccessDenied))
	assert.Equal(t, `path "Software\\Missing"`, err.Error())

	wrapped := fmt.Errorf("hide: %w", AccessDenied(errors.New("os says no"), "delete %s", "X"))
	assert.True(t, errors.Is(wrapped, ErrAccessDenied))
	assert.Contains(t, wrapped.Error(), "os says no")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("bad json")
	err := CorruptBackup(cause, "decode")
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrCorruptBackup))
}

func TestErrKind_String(t *testing.T) {
	assert.Equal(t, "no backup", ErrKindNoBackup.String())
	assert.Equal(t, "ErrKind(42)", ErrKind(42).String())
}

func TestNilError(t *testing.T) {
	var e *Error
	assert.Equal(t, "<nil>", e.Error())
}
