package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[int]int{
		0:                      http.StatusOK,
		ErrCodeBusinessError:   http.StatusBadRequest,
		ErrCodeUnauthorized:    http.StatusUnauthorized,
		ErrCodeForbidden:       http.StatusForbidden,
		ErrCodeNotFound:        http.StatusNotFound,
		ErrCodeConflict:        http.StatusConflict,
		ErrCodeInvalidParams:   http.StatusBadRequest,
		ErrCodeInternal:        http.StatusInternalServerError,
		ErrCodeDatabaseError:   http.StatusInternalServerError,
		40312:                  http.StatusForbidden,
		40007:                  http.StatusBadRequest,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), "code %d", code)
	}
}

func TestWithDetailsKeepsIdentity(t *testing.T) {
	base := New(40010, "BOOK_UNAVAILABLE", "Book is not available")
	detailed := base.WithDetails(map[string]any{"book_id": "B1"})

	assert.True(t, errors.Is(detailed, base))
	assert.Nil(t, base.Details, "预定义错误不能被修改")
	assert.Equal(t, "B1", detailed.Details["book_id"])

	wrapped := fmt.Errorf("issue: %w", detailed)
	assert.True(t, errors.Is(wrapped, base))
	assert.False(t, errors.Is(wrapped, ErrForbidden))
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(errors.New("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.Equal(t, ReasonInternal, appErr.Reason)

	same := GetAppError(ErrForbidden)
	assert.Same(t, ErrForbidden, same)
}
