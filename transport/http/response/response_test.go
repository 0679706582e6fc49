package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"todolist/shared/failure"
	"todolist/transport/http/response"
)

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"1"}`, rec.Body.String())
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		hide     bool
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "client error",
			err:      failure.BadRequestFromString("title is required"),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"title is required"}`,
		},
		{
			name:     "client error in production",
			hide:     true,
			err:      failure.NotFound("todo not found"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"todo not found"}`,
		},
		{
			name:     "internal error",
			err:      errors.New("connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"connection refused"}`,
		},
		{
			name:     "internal error in production",
			hide:     true,
			err:      errors.New("connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"An internal error occurred"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response.HideInternalErrors(tt.hide)
			t.Cleanup(func() { response.HideInternalErrors(false) })

			rec := httptest.NewRecorder()
			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestWithRequestLimitExceeded(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithRequestLimitExceeded(rec)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"message":"REQUEST LIMIT EXCEEDED"}`, rec.Body.String())
}
