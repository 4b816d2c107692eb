package domainerrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeNotFound, "cat not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeValidation))
	})

	t.Run("matches code through wrap chain", func(t *testing.T) {
		inner := New(CodeNotFound, "cat not found")
		outer := Wrap(inner, CodeInternal, "failed to load person")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeNotFound))
	})

	t.Run("non-domain error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestWrapPreservesChain(t *testing.T) {
	sentinel := errors.New("sql: no rows")
	err := Wrap(sentinel, CodeNotFound, "advertisement not found")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel))

	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeBadRequest, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeConflict, http.StatusConflict},
		{CodeInvariantViolation, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.code), string(tt.code))
	}
}

// TestMessage_NeverLeaksInternals guards the rule that invariant violations
// and internal failures surface as a generic message, never field-level text.
func TestMessage_NeverLeaksInternals(t *testing.T) {
	assert.Equal(t, "internal error", Message(New(CodeInternal, "db password wrong")))
	assert.Equal(t, "internal error", Message(New(CodeInvariantViolation, "priority score is zero")))
	assert.Equal(t, "internal error", Message(errors.New("plain")))
	assert.Equal(t, "email is not valid", Message(New(CodeValidation, "email is not valid")))
}
