package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"todolist/internal/domains/todo/model"
	"todolist/internal/domains/todo/repository"
	gDto "todolist/shared/dto"
)

func ptr[T any](v T) *T {
	return &v
}

func TestBuildListQuery(t *testing.T) {
	after := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		filter         model.ListFilter
		expectedParams gDto.QueryParams
		expectedWhere  string
		expectedArgs   map[string]any
	}{
		{
			name:           "no predicates uses default ordering",
			filter:         model.ListFilter{Limit: 20},
			expectedParams: gDto.QueryParams{Limit: 20, SortBy: "created_at", SortDir: "DESC"},
			expectedWhere:  "",
			expectedArgs:   map[string]any{},
		},
		{
			name:           "search matches title or body",
			filter:         model.ListFilter{Search: ptr("Foo"), SortBy: model.SortByTitle, SortOrder: model.SortOrderAsc, Offset: 2, Limit: 2},
			expectedParams: gDto.QueryParams{Offset: 2, Limit: 2, SortBy: "title", SortDir: "ASC"},
			expectedWhere:  "((LOWER(todos.title) LIKE LOWER(:search_title) OR LOWER(todos.body) LIKE LOWER(:search_body)))",
			expectedArgs:   map[string]any{"search_title": "%Foo%", "search_body": "%Foo%"},
		},
		{
			name:           "blank search is ignored",
			filter:         model.ListFilter{Search: ptr("   ")},
			expectedParams: gDto.QueryParams{SortBy: "created_at", SortDir: "DESC"},
			expectedWhere:  "",
			expectedArgs:   map[string]any{},
		},
		{
			name: "conjunctive predicates with inclusive ranges",
			filter: model.ListFilter{
				Priority:      ptr(model.PriorityHigh),
				Status:        ptr(model.StatusInProgress),
				CreatedAfter:  &after,
				CreatedBefore: &before,
				DueAfter:      &after,
				DueBefore:     &before,
				SortBy:        model.SortByDueDate,
				SortOrder:     model.SortOrderAsc,
				Limit:         10,
			},
			expectedParams: gDto.QueryParams{Limit: 10, SortBy: "due_date", SortDir: "ASC"},
			expectedWhere: "(todos.priority = :priority AND todos.status = :status" +
				" AND todos.created_at >= :created_after AND todos.created_at <= :created_before" +
				" AND todos.due_date >= :due_after AND todos.due_date <= :due_before)",
			expectedArgs: map[string]any{
				"priority":       model.PriorityHigh,
				"status":         model.StatusInProgress,
				"created_after":  after,
				"created_before": before,
				"due_after":      after,
				"due_before":     before,
			},
		},
		{
			name:           "invalid sort falls back to defaults",
			filter:         model.ListFilter{SortBy: "body", SortOrder: "sideways", Offset: -5, Limit: -1},
			expectedParams: gDto.QueryParams{SortBy: "created_at", SortDir: "DESC"},
			expectedWhere:  "",
			expectedArgs:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, where := repository.BuildListQuery(tt.filter)

			assert.Equal(t, tt.expectedParams, params)

			clause, args := where.GetWhereClause()
			assert.Equal(t, tt.expectedWhere, clause)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestBuildStatusQuery(t *testing.T) {
	params, where := repository.BuildStatusQuery(model.StatusCompleted)

	assert.Equal(t, gDto.QueryParams{SortBy: "created_at", SortDir: "DESC"}, params)

	clause, args := where.GetWhereClause()
	assert.Equal(t, "(todos.status = :status)", clause)
	assert.Equal(t, map[string]any{"status": model.StatusCompleted}, args)
}

func TestBuildOverdueQuery(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	params, where := repository.BuildOverdueQuery(now)

	assert.Equal(t, gDto.QueryParams{SortBy: "due_date", SortDir: "ASC"}, params)

	clause, args := where.GetWhereClause()
	assert.Equal(t, "(todos.due_date IS NOT NULL AND todos.due_date < :now AND todos.status != :status)", clause)
	assert.Equal(t, map[string]any{"now": now, "status": model.StatusCompleted}, args)
}

func TestWritableFields(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"title", "body", "status", "priority", "due_date", "updated_at"},
		repository.WritableFields(),
	)
}
