package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/domains/todo/model"
)

func TestApplyField(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	body := "details"

	tests := []struct {
		name    string
		field   string
		value   any
		check   func(t *testing.T, todo model.Todo)
		wantErr error
	}{
		{
			name:  "title",
			field: model.FieldTitle,
			value: "renamed",
			check: func(t *testing.T, todo model.Todo) { assert.Equal(t, "renamed", todo.Title) },
		},
		{
			name:  "body from pointer",
			field: model.FieldBody,
			value: &body,
			check: func(t *testing.T, todo model.Todo) { assert.Equal(t, "details", *todo.Body) },
		},
		{
			name:  "body cleared",
			field: model.FieldBody,
			value: nil,
			check: func(t *testing.T, todo model.Todo) { assert.Nil(t, todo.Body) },
		},
		{
			name:  "status from string",
			field: model.FieldStatus,
			value: "completed",
			check: func(t *testing.T, todo model.Todo) { assert.Equal(t, model.StatusCompleted, todo.Status) },
		},
		{
			name:  "priority",
			field: model.FieldPriority,
			value: model.PriorityHigh,
			check: func(t *testing.T, todo model.Todo) { assert.Equal(t, model.PriorityHigh, todo.Priority) },
		},
		{
			name:  "due date value",
			field: model.FieldDueDate,
			value: now,
			check: func(t *testing.T, todo model.Todo) { assert.Equal(t, now, *todo.DueDate) },
		},
		{
			name:  "updated at",
			field: model.FieldUpdatedAt,
			value: now,
			check: func(t *testing.T, todo model.Todo) { assert.Equal(t, now, todo.UpdatedAt) },
		},
		{name: "unknown field", field: "owner", value: "me", wantErr: ErrUnknownField},
		{name: "immutable field", field: model.FieldCreatedAt, value: now, wantErr: ErrUnknownField},
		{name: "wrong type", field: model.FieldTitle, value: 42, wantErr: ErrInvalidFieldValue},
		{name: "invalid status", field: model.FieldStatus, value: "done", wantErr: ErrInvalidFieldValue},
		{name: "invalid priority", field: model.FieldPriority, value: model.Priority("urgent"), wantErr: ErrInvalidFieldValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todo := model.NewTodo("id", "title", now.Add(-time.Hour))
			todo.Body = &body

			err := applyField(&todo, tt.field, tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			tt.check(t, todo)
		})
	}
}

func TestColumnValue(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	todo := model.NewTodo("id", "title", now)

	assert.Equal(t, "title", columnValue(todo, model.FieldTitle))
	assert.Equal(t, model.StatusNotStarted, columnValue(todo, model.FieldStatus))
	assert.Equal(t, model.PriorityLow, columnValue(todo, model.FieldPriority))
	assert.Equal(t, now, columnValue(todo, model.FieldUpdatedAt))
	assert.Nil(t, columnValue(todo, "owner"))
}

func TestVersionFilter(t *testing.T) {
	todo := model.Todo{ID: "abc", Version: 3}

	filter := versionFilter(todo)
	clause, args := filter.GetWhereClause()

	assert.Equal(t, "(todos.id = :id AND todos.version = :current_version)", clause)
	assert.Equal(t, map[string]any{"id": "abc", "current_version": 3}, args)
}
