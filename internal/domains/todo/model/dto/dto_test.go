package dto_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/domains/todo/model"
	"todolist/internal/domains/todo/model/dto"
	"todolist/shared"
	gDto "todolist/shared/dto"
	"todolist/shared/failure"
	gModel "todolist/shared/model"
	"todolist/shared/validator"
)

func TestCreateTodoRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "minimal", body: `{"title":"Buy milk"}`},
		{name: "full", body: `{"title":"Buy milk","body":"2 litres","priority":"high","due_date":"2030-01-01T10:00:00+02:00"}`},
		{name: "missing title", body: `{"body":"x"}`, message: "title is required"},
		{name: "blank title", body: `{"title":"   "}`, message: "title is required"},
		{name: "title too long", body: `{"title":"` + strings.Repeat("a", 65) + `"}`, message: "title must be at most 64 characters"},
		{name: "unknown priority", body: `{"title":"x","priority":"urgent"}`, message: "priority must be one of low medium high"},
		{name: "status not accepted", body: `{"title":"x","status":"completed"}`, message: `failed to decode request body: json: unknown field "status"`},
		{name: "naive due date", body: `{"title":"x","due_date":"2030-01-01T10:00:00"}`, message: "datetime values must be RFC3339 timestamps with a timezone offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req dto.CreateTodoRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)
			if tt.message == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestCreateTodoRequest_ToModel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)
	body := "  details  "
	priority := model.PriorityMedium

	req := dto.CreateTodoRequest{Title: "  Plan trip ", Body: &body, Priority: &priority, DueDate: &due}
	req.Normalize()

	todo := req.ToModel("id-1", now)

	assert.Equal(t, "id-1", todo.ID)
	assert.Equal(t, "Plan trip", todo.Title)
	assert.Equal(t, "details", *todo.Body)
	assert.Equal(t, model.PriorityMedium, todo.Priority)
	assert.Equal(t, model.StatusNotStarted, todo.Status)
	assert.Equal(t, due, *todo.DueDate)
	assert.Equal(t, now, todo.CreatedAt)
	assert.Equal(t, now, todo.UpdatedAt)

	defaults := (&dto.CreateTodoRequest{Title: "x"}).ToModel("id-2", now)
	assert.Equal(t, model.PriorityLow, defaults.Priority)
}

func TestUpdateTodoRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "empty update", body: `{}`},
		{name: "clear body and due date", body: `{"body":null,"due_date":null}`},
		{name: "all fields", body: `{"title":"x","body":"y","status":"completed","priority":"low","due_date":"2030-01-01T00:00:00Z"}`},
		{name: "null title", body: `{"title":null}`, message: "title cannot be null"},
		{name: "blank title", body: `{"title":"  "}`, message: "title cannot be empty"},
		{name: "long title", body: `{"title":"` + strings.Repeat("a", 65) + `"}`, message: "title must be at most 64 characters"},
		{name: "null status", body: `{"status":null}`, message: "status cannot be null"},
		{name: "null priority", body: `{"priority":null}`, message: "priority cannot be null"},
		{name: "unknown status", body: `{"status":"done"}`, message: "status must be one of not_started in_progress completed"},
		{name: "unknown field", body: `{"id":"x"}`, message: `failed to decode request body: json: unknown field "id"`},
		{name: "naive due date", body: `{"due_date":"2030-01-01T00:00:00"}`, message: "datetime values must be RFC3339 timestamps with a timezone offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req dto.UpdateTodoRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)
			if tt.message == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestUpdateTodoRequest_TransformFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var req dto.UpdateTodoRequest
	require.NoError(t, validator.Validate(strings.NewReader(`{"title":" New ","body":null,"status":"in_progress"}`), &req))

	fields := shared.TransformFields(req, now)

	assert.Equal(t, map[string]any{
		"title":      "New",
		"body":       nil,
		"status":     model.StatusInProgress,
		"updated_at": now,
	}, fields)
}

func TestTransitionAndPriorityRequest(t *testing.T) {
	var transition dto.TransitionRequest
	require.NoError(t, validator.Validate(strings.NewReader(`{"status":"completed"}`), &transition))
	assert.Equal(t, model.StatusCompleted, transition.Status)

	assert.Error(t, validator.Validate(strings.NewReader(`{"status":"archived"}`), &dto.TransitionRequest{}))
	assert.Error(t, validator.Validate(strings.NewReader(`{}`), &dto.TransitionRequest{}))

	var priority dto.PriorityRequest
	require.NoError(t, validator.Validate(strings.NewReader(`{"priority":"high"}`), &priority))
	assert.Equal(t, model.PriorityHigh, priority.Priority)

	assert.Error(t, validator.Validate(strings.NewReader(`{"priority":"urgent"}`), &dto.PriorityRequest{}))
}

func TestTodoResponse_FromModel(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	due := created.Add(24 * time.Hour)
	body := "details"

	todo := model.Todo{
		ID:       "id-1",
		Title:    "Plan trip",
		Body:     &body,
		Status:   model.StatusInProgress,
		Priority: model.PriorityHigh,
		DueDate:  &due,
		Version:  3,
		Metadata: gModel.Metadata{CreatedAt: created, UpdatedAt: created.Add(time.Hour)},
	}

	var res dto.TodoResponse
	res.FromModel(todo)

	assert.Equal(t, "id-1", res.ID)
	assert.Equal(t, "Plan trip", res.Title)
	assert.Equal(t, "details", *res.Body)
	assert.Equal(t, "in_progress", res.Status)
	assert.Equal(t, "high", res.Priority)
	assert.Equal(t, "2025-06-01T12:00:00Z", res.CreatedAt)
	assert.Equal(t, "2025-06-01T13:00:00Z", res.UpdatedAt)
	assert.Equal(t, "2025-06-02T12:00:00Z", *res.DueDate)

	var empty dto.TodoResponse
	empty.FromModel(model.Todo{ID: "id-2"})
	assert.Nil(t, empty.DueDate)
	assert.Nil(t, empty.Body)
}

func TestListTodosResponse_FromModels(t *testing.T) {
	var res dto.ListTodosResponse
	res.FromModels([]model.Todo{{ID: "a"}, {ID: "b"}}, 7, gDto.Pagination{Page: 2, PageSize: 2})

	assert.Len(t, res.Todos, 2)
	assert.Equal(t, 7, res.Total)
	assert.Equal(t, 4, res.TotalPages)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 2, res.PageSize)

	res.FromModels(nil, 0, gDto.Pagination{Page: 1, PageSize: 20})
	assert.NotNil(t, res.Todos)
	assert.Empty(t, res.Todos)
	assert.Equal(t, 1, res.TotalPages)
}

func TestListTodosRequest_FromRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		check   func(t *testing.T, req dto.ListTodosRequest)
		message string
	}{
		{
			name:  "defaults",
			query: "",
			check: func(t *testing.T, req dto.ListTodosRequest) {
				assert.Equal(t, model.ListFilter{
					SortBy:    model.SortByCreatedAt,
					SortOrder: model.SortOrderDesc,
					Offset:    0,
					Limit:     20,
				}, req.Filter)
				assert.Equal(t, gDto.Pagination{Page: 1, PageSize: 20}, req.Pagination)
			},
		},
		{
			name:  "all parameters",
			query: "?search=%20milk%20&priority=high&status=completed&sort_by=due_date&sort_order=ASC&page=3&page_size=5&created_after=2025-01-01T00:00:00%2B07:00&due_before=2025-02-01T00:00:00Z",
			check: func(t *testing.T, req dto.ListTodosRequest) {
				assert.Equal(t, "milk", *req.Filter.Search)
				assert.Equal(t, model.PriorityHigh, *req.Filter.Priority)
				assert.Equal(t, model.StatusCompleted, *req.Filter.Status)
				assert.Equal(t, model.SortByDueDate, req.Filter.SortBy)
				assert.Equal(t, model.SortOrderAsc, req.Filter.SortOrder)
				assert.Equal(t, 10, req.Filter.Offset)
				assert.Equal(t, 5, req.Filter.Limit)
				assert.True(t, req.Filter.CreatedAfter.Equal(time.Date(2024, 12, 31, 17, 0, 0, 0, time.UTC)))
				assert.True(t, req.Filter.DueBefore.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
				assert.Nil(t, req.Filter.CreatedBefore)
				assert.Nil(t, req.Filter.DueAfter)
			},
		},
		{
			name:  "unescaped plus offset",
			query: "?due_after=2025-01-01T00:00:00+07:00",
			check: func(t *testing.T, req dto.ListTodosRequest) {
				require.NotNil(t, req.Filter.DueAfter)
				assert.True(t, req.Filter.DueAfter.Equal(time.Date(2024, 12, 31, 17, 0, 0, 0, time.UTC)))
			},
		},
		{name: "naive datetime", query: "?created_before=2025-01-01T00:00:00", message: "created_before must be an RFC3339 timestamp with a timezone offset"},
		{name: "bad priority", query: "?priority=urgent", message: "priority must be one of low medium high"},
		{name: "bad status", query: "?status=done", message: "status must be one of not_started in_progress completed"},
		{name: "bad sort field", query: "?sort_by=body", message: "sort_by must be one of created_at updated_at due_date priority title"},
		{name: "bad sort order", query: "?sort_order=up", message: "sort_order must be one of asc desc"},
		{name: "bad page", query: "?page=0", message: "invalid page parameter"},
		{name: "page size above max", query: "?page_size=500", message: "invalid page_size parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req dto.ListTodosRequest

			err := req.FromRequest(httptest.NewRequest(http.MethodGet, "/v1/todos"+tt.query, nil), 20, 100)
			if tt.message != "" {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
				assert.Equal(t, tt.message, err.Error())

				return
			}

			require.NoError(t, err)
			tt.check(t, req)
		})
	}
}
