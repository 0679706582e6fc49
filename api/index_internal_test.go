package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuild(t *testing.T, fn func() (http.Handler, error)) {
	t.Helper()

	original := build
	buildOnce = sync.Once{}
	app, appErr = nil, nil
	build = fn

	t.Cleanup(func() {
		build = original
		buildOnce = sync.Once{}
		app, appErr = nil, nil
	})
}

func TestHandler_BuildsOnce(t *testing.T) {
	calls := 0
	withBuild(t, func() (http.Handler, error) {
		calls++

		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}), nil
	})

	for range 3 {
		rec := httptest.NewRecorder()
		Handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	assert.Equal(t, 1, calls)
}

func TestHandler_BuildFailure(t *testing.T) {
	calls := 0
	withBuild(t, func() (http.Handler, error) {
		calls++

		return nil, errors.New("invalid configuration")
	})

	for range 2 {
		rec := httptest.NewRecorder()
		Handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	}

	assert.Equal(t, 1, calls)
}
