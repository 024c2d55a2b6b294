package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeStorage, "write identity record")

	require.Error(t, err)
	assert.True(t, HasCode(err, CodeStorage))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeStorage, "should vanish"))
}

func TestHasCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeValidation, "amount must be positive"))
	assert.True(t, HasCode(err, CodeValidation))
	assert.False(t, HasCode(err, CodeStorage))
}

func TestGetCodeFallsBackToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, GetCode(errors.New("plain")))
	assert.Equal(t, CodeProviderCancelled, GetCode(New(CodeProviderCancelled, "user closed the dialog")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:        http.StatusBadRequest,
		CodeBadRequest:        http.StatusBadRequest,
		CodeProviderFailure:   http.StatusUnauthorized,
		CodeProviderCancelled: http.StatusUnauthorized,
		CodeUnauthorized:      http.StatusUnauthorized,
		CodeNotFound:          http.StatusNotFound,
		CodeStorage:           http.StatusInternalServerError,
		CodeInternal:          http.StatusInternalServerError,
		Code("unknown"):       http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
