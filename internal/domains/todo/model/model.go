package model

import (
	"time"

	"todolist/shared/model"
)

const (
	TableName  = "todos"
	EntityName = "todo"

	FieldID        = "id"
	FieldTitle     = "title"
	FieldBody      = "body"
	FieldStatus    = "status"
	FieldPriority  = "priority"
	FieldDueDate   = "due_date"
	FieldVersion   = "version"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

const TitleMaxLength = 64

// Todo is the single stored entity. Version is bumped on every write and guards concurrent
// read-modify-write cycles.
type Todo struct {
	ID       string     `db:"id"`
	Title    string     `db:"title"`
	Body     *string    `db:"body"`
	Status   Status     `db:"status"`
	Priority Priority   `db:"priority"`
	DueDate  *time.Time `db:"due_date"`
	Version  int        `db:"version"`
	model.Metadata
}

// NewTodo returns a todo with the creation defaults applied and both timestamps set to now.
func NewTodo(id, title string, now time.Time) Todo {
	return Todo{
		ID:       id,
		Title:    title,
		Status:   StatusNotStarted,
		Priority: PriorityLow,
		Version:  1,
		Metadata: model.Metadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// IsOverdue reports whether the todo has a due date before now and is not completed.
func (t Todo) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}
