package dto_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/shared/dto"
	"todolist/shared/failure"
	"todolist/shared/model"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt})

	assert.Equal(t, "2023-01-01T12:00:00Z", metadata.CreatedAt)
	assert.Equal(t, "2023-01-02T12:00:00Z", metadata.UpdatedAt)
}

func TestPagination_FromRequest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected dto.Pagination
		err      error
	}{
		{
			name:     "defaults",
			query:    "",
			expected: dto.Pagination{Page: 1, PageSize: 20},
		},
		{
			name:     "explicit values",
			query:    "?page=3&page_size=50",
			expected: dto.Pagination{Page: 3, PageSize: 50},
		},
		{
			name:     "page size at max",
			query:    "?page_size=100",
			expected: dto.Pagination{Page: 1, PageSize: 100},
		},
		{name: "zero page", query: "?page=0", err: failure.InvalidPageParam},
		{name: "negative page", query: "?page=-2", err: failure.InvalidPageParam},
		{name: "non numeric page", query: "?page=abc", err: failure.InvalidPageParam},
		{name: "zero page size", query: "?page_size=0", err: failure.InvalidPageSizeParam},
		{name: "page size over max", query: "?page_size=101", err: failure.InvalidPageSizeParam},
		{name: "offset overflows", query: "?page=4611686018427387905&page_size=4", err: failure.InvalidPageParam},
		{name: "max int page", query: "?page=9223372036854775807", err: failure.InvalidPageParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/todos"+tt.query, nil)

			pagination := dto.Pagination{}
			err := pagination.FromRequest(req, 20, 100)

			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, pagination)
		})
	}
}

func TestPagination_Offset(t *testing.T) {
	assert.Equal(t, 0, dto.Pagination{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, dto.Pagination{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 0, dto.Pagination{}.Offset())
}

func TestNormalizeSortDir(t *testing.T) {
	assert.Equal(t, dto.SortDirAsc, dto.NormalizeSortDir("asc"))
	assert.Equal(t, dto.SortDirDesc, dto.NormalizeSortDir("DESC"))
	assert.Empty(t, dto.NormalizeSortDir("sideways"))
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name         string
		filter       dto.Filter
		expectedSQL  string
		expectedArgs map[string]any
	}{
		{
			name:         "eq with table",
			filter:       dto.Filter{Field: "status", Value: "done", Operator: dto.FilterOperatorEq, Table: "todos"},
			expectedSQL:  "todos.status = :status",
			expectedArgs: map[string]any{"status": "done"},
		},
		{
			name:         "like escapes wildcards",
			filter:       dto.Filter{Field: "title", ArgName: "q", Value: `50%_off\`, Operator: dto.FilterOperatorLike},
			expectedSQL:  "LOWER(title) LIKE LOWER(:q)",
			expectedArgs: map[string]any{"q": `%50\%\_off\\%`},
		},
		{
			name:         "in with slice",
			filter:       dto.Filter{Field: "priority", Value: []string{"low", "high"}, Operator: dto.FilterOperatorIn},
			expectedSQL:  "priority IN (:priority_0, :priority_1)",
			expectedArgs: map[string]any{"priority_0": "low", "priority_1": "high"},
		},
		{
			name:         "strict less uses arg name",
			filter:       dto.Filter{Field: "due_date", ArgName: "now", Value: 1, Operator: dto.FilterOperatorLess},
			expectedSQL:  "due_date < :now",
			expectedArgs: map[string]any{"now": 1},
		},
		{
			name:         "greater eq",
			filter:       dto.Filter{Field: "created_at", ArgName: "created_after", Value: 2, Operator: dto.FilterOperatorGreaterEq},
			expectedSQL:  "created_at >= :created_after",
			expectedArgs: map[string]any{"created_after": 2},
		},
		{
			name:         "is not null",
			filter:       dto.Filter{Field: "due_date", Table: "todos", Operator: dto.FilterIsNotNull},
			expectedSQL:  "todos.due_date IS NOT NULL",
			expectedArgs: map[string]any{},
		},
		{
			name:         "unknown operator",
			filter:       dto.Filter{Field: "x", Operator: "between"},
			expectedSQL:  "",
			expectedArgs: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.filter.GetWhereClause()
			assert.Equal(t, tt.expectedSQL, sql)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	search := dto.FilterGroup{Operator: dto.FilterGroupOperatorOr}
	search.Add(
		dto.Filter{Field: "title", ArgName: "search_title", Value: "milk", Operator: dto.FilterOperatorLike},
		dto.Filter{Field: "body", ArgName: "search_body", Value: "milk", Operator: dto.FilterOperatorLike},
	)

	group := dto.FilterGroup{}
	group.Add(
		dto.Filter{Field: "status", Value: "completed", Operator: dto.FilterOperatorEq},
		search,
		"ignored",
	)

	sql, args := group.GetWhereClause()

	assert.Equal(t,
		"(status = :status AND (LOWER(title) LIKE LOWER(:search_title) OR LOWER(body) LIKE LOWER(:search_body)))",
		sql,
	)
	assert.Equal(t, map[string]any{
		"status":       "completed",
		"search_title": "%milk%",
		"search_body":  "%milk%",
	}, args)

	empty := dto.FilterGroup{}
	sql, args = empty.GetWhereClause()
	assert.Empty(t, sql)
	assert.Empty(t, args)
}

func TestOptional(t *testing.T) {
	type payload struct {
		Title dto.Optional[string] `json:"title"`
		Body  dto.Optional[string] `json:"body"`
		Note  dto.Optional[string] `json:"note"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","body":null}`), &p))

	value, ok := p.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", value)
	assert.Equal(t, "x", *p.Title.Ptr())

	assert.True(t, p.Body.IsSet())
	assert.True(t, p.Body.IsNull())
	assert.Nil(t, p.Body.Ptr())
	assert.Nil(t, p.Body.FieldValue())

	assert.False(t, p.Note.IsSet())
	assert.False(t, p.Note.IsNull())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x","body":null,"note":null}`, string(out))
}
