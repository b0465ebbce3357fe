package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{ErrValidation, http.StatusBadRequest, "validation_error"},
		{ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{ErrForbidden, http.StatusForbidden, "forbidden"},
		{ErrNotFound, http.StatusNotFound, "not_found"},
		{ErrConflict, http.StatusConflict, "conflict"},
		{ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{errors.New("database exploded"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.status, Status(tt.err))
		require.Equal(t, tt.code, Code(tt.err))
	}
}

func TestStatusSeesWrappedErrors(t *testing.T) {
	err := fmt.Errorf("%w: username already taken", ErrConflict)
	require.Equal(t, http.StatusConflict, Status(err))
	require.Equal(t, "conflict", Code(err))
}

func TestWrite(t *testing.T) {
	rr := httptest.NewRecorder()
	Write(rr, fmt.Errorf("%w: not a chat member", ErrForbidden))

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, "forbidden", body.Code)
	require.Contains(t, body.Message, "not a chat member")
}

func TestWriteHidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	Write(rr, errors.New("pq: connection refused at 10.0.0.3"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "10.0.0.3")
	require.Contains(t, rr.Body.String(), "internal_error")
}
