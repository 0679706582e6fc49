package todo_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"todolist/config"
	otelMocks "todolist/infras/otel/mocks"
	"todolist/internal/domains/todo/model"
	"todolist/internal/domains/todo/model/dto"
	serviceMocks "todolist/internal/domains/todo/service/mocks"
	todoHandler "todolist/internal/handlers/todo"
	gModel "todolist/shared/model"
)

const todoID = "0b6c5e0e-3d0f-4d5c-9d8e-2f1a0c3b4d5e"

func newRouter(t *testing.T) (*serviceMocks.MockTodo, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := serviceMocks.NewMockTodo(ctrl)

	cfg := &config.Config{}
	cfg.App.Pagination.DefaultPageSize = 20
	cfg.App.Pagination.MaxPageSize = 100

	handler := todoHandler.New(svc, cfg, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return svc, router
}

func sampleTodo() model.Todo {
	created := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)

	return model.Todo{
		ID:       todoID,
		Title:    "Write report",
		Status:   model.StatusNotStarted,
		Priority: model.PriorityMedium,
		Version:  1,
		Metadata: gModel.Metadata{CreatedAt: created, UpdatedAt: created},
	}
}

const sampleJSON = `{
	"id": "0b6c5e0e-3d0f-4d5c-9d8e-2f1a0c3b4d5e",
	"title": "Write report",
	"body": null,
	"status": "not_started",
	"priority": "medium",
	"created_at": "2025-03-01T08:30:00Z",
	"updated_at": "2025-03-01T08:30:00Z",
	"due_date": null
}`

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	return recorder
}

func TestHandler_CreateTodo(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), dto.CreateTodoRequest{Title: "Write report"}).Return(sampleTodo(), nil)

		rec := serve(router, http.MethodPost, "/v1/todos", `{"title":" Write report "}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, sampleJSON, rec.Body.String())
	})

	t.Run("invalid body", func(t *testing.T) {
		_, router := newRouter(t)

		rec := serve(router, http.MethodPost, "/v1/todos", `{"title":""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"title is required"}`, rec.Body.String())
	})

	t.Run("service error", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Todo{}, errors.New("boom"))

		rec := serve(router, http.MethodPost, "/v1/todos", `{"title":"x"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_GetTodos(t *testing.T) {
	t.Run("list with filters", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, filter model.ListFilter) ([]model.Todo, int, error) {
				assert.Equal(t, "report", *filter.Search)
				assert.Equal(t, model.PriorityMedium, *filter.Priority)
				assert.Equal(t, model.SortByTitle, filter.SortBy)
				assert.Equal(t, model.SortOrderAsc, filter.SortOrder)
				assert.Equal(t, 1, filter.Offset)
				assert.Equal(t, 1, filter.Limit)

				return []model.Todo{sampleTodo()}, 3, nil
			})

		rec := serve(router, http.MethodGet, "/v1/todos?search=report&priority=medium&sort_by=title&sort_order=asc&page=2&page_size=1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"todos":[`+sampleJSON+`],"total":3,"total_pages":3,"page":2,"page_size":1}`, rec.Body.String())
	})

	t.Run("empty list", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, nil)

		rec := serve(router, http.MethodGet, "/v1/todos", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"todos":[],"total":0,"total_pages":1,"page":1,"page_size":20}`, rec.Body.String())
	})

	t.Run("naive datetime", func(t *testing.T) {
		_, router := newRouter(t)

		rec := serve(router, http.MethodGet, "/v1/todos?created_after=2025-01-01T00:00:00", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("page size above max", func(t *testing.T) {
		_, router := newRouter(t)

		rec := serve(router, http.MethodGet, "/v1/todos?page_size=101", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetOverdueAndByStatus(t *testing.T) {
	t.Run("overdue", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().GetOverdue(gomock.Any()).Return([]model.Todo{sampleTodo()}, nil)

		rec := serve(router, http.MethodGet, "/v1/todos/overdue", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[`+sampleJSON+`]`, rec.Body.String())
	})

	t.Run("by status", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().GetByStatus(gomock.Any(), model.StatusCompleted).Return(nil, nil)

		rec := serve(router, http.MethodGet, "/v1/todos/status/completed", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("unknown status", func(t *testing.T) {
		_, router := newRouter(t)

		rec := serve(router, http.MethodGet, "/v1/todos/status/done", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetTodoByID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		setup    func(svc *serviceMocks.MockTodo)
		wantCode int
		wantBody string
	}{
		{
			name: "found",
			id:   todoID,
			setup: func(svc *serviceMocks.MockTodo) {
				svc.EXPECT().Get(gomock.Any(), todoID).Return(sampleTodo(), true, nil)
			},
			wantCode: http.StatusOK,
			wantBody: sampleJSON,
		},
		{
			name: "absent",
			id:   todoID,
			setup: func(svc *serviceMocks.MockTodo) {
				svc.EXPECT().Get(gomock.Any(), todoID).Return(model.Todo{}, false, nil)
			},
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"todo not found"}`,
		},
		{
			name:     "malformed id",
			id:       "42",
			setup:    func(*serviceMocks.MockTodo) {},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"id must be a valid UUID"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setup(svc)

			rec := serve(router, http.MethodGet, "/v1/todos/"+tt.id, "")

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandler_UpdateTodo(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Update(gomock.Any(), todoID, gomock.Any()).DoAndReturn(
			func(_ any, _ string, req dto.UpdateTodoRequest) (model.Todo, bool, error) {
				title, ok := req.Title.Get()
				assert.True(t, ok)
				assert.Equal(t, "Write report", title)
				assert.False(t, req.Status.IsSet())

				return sampleTodo(), true, nil
			})

		rec := serve(router, http.MethodPatch, "/v1/todos/"+todoID, `{"title":"Write report"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, sampleJSON, rec.Body.String())
	})

	t.Run("absent", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Update(gomock.Any(), todoID, gomock.Any()).Return(model.Todo{}, false, nil)

		rec := serve(router, http.MethodPatch, "/v1/todos/"+todoID, `{}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, router := newRouter(t)

		rec := serve(router, http.MethodPatch, "/v1/todos/"+todoID, `{"version":3}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_DeleteTodo(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Delete(gomock.Any(), todoID).Return(true, nil)

		rec := serve(router, http.MethodDelete, "/v1/todos/"+todoID, "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("absent", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Delete(gomock.Any(), todoID).Return(false, nil)

		rec := serve(router, http.MethodDelete, "/v1/todos/"+todoID, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_TransitionAndPriority(t *testing.T) {
	t.Run("transition", func(t *testing.T) {
		svc, router := newRouter(t)
		todo := sampleTodo()
		todo.Status = model.StatusInProgress

		svc.EXPECT().TransitionStatus(gomock.Any(), todoID, model.StatusInProgress).Return(todo, nil)

		rec := serve(router, http.MethodPost, "/v1/todos/"+todoID+"/transition", `{"status":"in_progress"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"in_progress"`)
	})

	t.Run("rejected transition", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().TransitionStatus(gomock.Any(), todoID, model.StatusNotStarted).
			Return(model.Todo{}, &model.StatusTransitionError{From: model.StatusNotStarted, To: model.StatusNotStarted})

		rec := serve(router, http.MethodPost, "/v1/todos/"+todoID+"/transition", `{"status":"not_started"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"invalid status transition from not_started to not_started"}`, rec.Body.String())
	})

	t.Run("priority", func(t *testing.T) {
		svc, router := newRouter(t)
		todo := sampleTodo()
		todo.Priority = model.PriorityHigh

		svc.EXPECT().UpdatePriority(gomock.Any(), todoID, model.PriorityHigh).Return(todo, nil)

		rec := serve(router, http.MethodPatch, "/v1/todos/"+todoID+"/priority", `{"priority":"high"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"priority":"high"`)
	})

	t.Run("unknown priority", func(t *testing.T) {
		_, router := newRouter(t)

		rec := serve(router, http.MethodPatch, "/v1/todos/"+todoID+"/priority", `{"priority":"urgent"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
