package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"todolist/infras/otel"
	"todolist/infras/postgres"
	"todolist/internal/domains/todo/model"
	"todolist/shared"
	"todolist/shared/constant"
	gDto "todolist/shared/dto"
	"todolist/shared/failure"
	gRepo "todolist/shared/repository"
)

const argCurrentVersion = "current_version"

var (
	// ErrUnknownField is returned by Update for a key that is not a writable todo field.
	ErrUnknownField = errors.New("unknown todo field")

	// ErrInvalidFieldValue is returned by Update when a value has the wrong type for its field.
	ErrInvalidFieldValue = errors.New("invalid todo field value")

	errVersionConflict = failure.Conflict("todo was modified concurrently, retry the request")
)

// Todo is the data access surface for todos. It holds no business rules; writes join the
// transaction carried by ctx, if any.
type Todo interface {
	GetByID(ctx context.Context, id string) (model.Todo, bool, error)
	Add(ctx context.Context, todo *model.Todo) error
	Update(ctx context.Context, todo *model.Todo, fields map[string]any) error
	Delete(ctx context.Context, todo model.Todo) error
	List(ctx context.Context, filter model.ListFilter) ([]model.Todo, int, error)
	GetByStatus(ctx context.Context, status model.Status) ([]model.Todo, error)
	GetOverdue(ctx context.Context, now time.Time) ([]model.Todo, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Todo]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Todo {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Todo](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) GetByID(ctx context.Context, id string) (todo model.Todo, found bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.GetByID")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo, err = r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get todo")

		return todo, false, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, todo.ID != "", nil
}

// Add persists a new todo. An empty ID is replaced by a generated one so the caller can read
// it back from todo.
func (r *repositoryImpl) Add(ctx context.Context, todo *model.Todo) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.Add")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}

	if todo.Version == 0 {
		todo.Version = 1
	}

	if err = r.Insert(ctx, *todo); err != nil {
		log.Error().Err(err).Str("id", todo.ID).Msg("failed to add todo")

		return fmt.Errorf("failed to add todo: %w", err)
	}

	return nil
}

// Update applies fields onto todo in place and writes them. Every key is checked before anything
// changes, so an unknown field leaves todo untouched. The write only succeeds if the stored
// version still matches todo.Version.
func (r *repositoryImpl) Update(ctx context.Context, todo *model.Todo, fields map[string]any) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	updated := *todo

	for field, value := range fields {
		if err = applyField(&updated, field, value); err != nil {
			return err
		}
	}

	mod := make(map[string]any, len(fields)+1)
	for field := range fields {
		mod[field] = columnValue(updated, field)
	}

	mod[model.FieldVersion] = todo.Version + 1

	affected, err := r.Repository.Update(ctx, mod, versionFilter(*todo))
	if err != nil {
		log.Error().Err(err).Str("id", todo.ID).Msg("failed to update todo")

		return fmt.Errorf("failed to update todo: %w", err)
	}

	if affected == 0 {
		return errVersionConflict
	}

	updated.Version = todo.Version + 1
	*todo = updated

	return nil
}

func (r *repositoryImpl) Delete(ctx context.Context, todo model.Todo) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	affected, err := r.Repository.Delete(ctx, versionFilter(todo))
	if err != nil {
		log.Error().Err(err).Str("id", todo.ID).Msg("failed to delete todo")

		return fmt.Errorf("failed to delete todo: %w", err)
	}

	if affected == 0 {
		return errVersionConflict
	}

	return nil
}

// List returns one page of todos matching filter together with the number of matches across
// all pages.
func (r *repositoryImpl) List(ctx context.Context, filter model.ListFilter) (todos []model.Todo, total int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params, where := BuildListQuery(filter)

	total, err = r.Count(ctx, where)
	if err != nil {
		log.Error().Err(err).Msg("failed to count todos")

		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	todos, err = r.GetAll(ctx, params, where)
	if err != nil {
		log.Error().Err(err).Msg("failed to list todos")

		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, total, nil
}

func (r *repositoryImpl) GetByStatus(ctx context.Context, status model.Status) (todos []model.Todo, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.GetByStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params, where := BuildStatusQuery(status)

	todos, err = r.GetAll(ctx, params, where)
	if err != nil {
		log.Error().Err(err).Str("status", status.String()).Msg("failed to get todos by status")

		return nil, fmt.Errorf("failed to get todos by status: %w", err)
	}

	return todos, nil
}

// GetOverdue returns open todos whose due date is before now, earliest first.
func (r *repositoryImpl) GetOverdue(ctx context.Context, now time.Time) (todos []model.Todo, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.GetOverdue")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params, where := BuildOverdueQuery(now)

	todos, err = r.GetAll(ctx, params, where)
	if err != nil {
		log.Error().Err(err).Msg("failed to get overdue todos")

		return nil, fmt.Errorf("failed to get overdue todos: %w", err)
	}

	return todos, nil
}

func versionFilter(todo model.Todo) gDto.FilterGroup {
	filter := shared.FilterByID(todo.ID, model.FieldID, model.TableName)
	filter.Add(gDto.Filter{
		ArgName:  argCurrentVersion,
		Field:    model.FieldVersion,
		Value:    todo.Version,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	return filter
}

// WritableFields lists the keys Update accepts.
func WritableFields() []string {
	return []string{
		model.FieldTitle,
		model.FieldBody,
		model.FieldStatus,
		model.FieldPriority,
		model.FieldDueDate,
		model.FieldUpdatedAt,
	}
}

func applyField(todo *model.Todo, field string, value any) error {
	if !slices.Contains(WritableFields(), field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	invalid := fmt.Errorf("%w: %s=%v (%T)", ErrInvalidFieldValue, field, value, value)

	switch field {
	case model.FieldTitle:
		title, ok := value.(string)
		if !ok {
			return invalid
		}

		todo.Title = title
	case model.FieldBody:
		body, ok := asOptionalString(value)
		if !ok {
			return invalid
		}

		todo.Body = body
	case model.FieldStatus:
		switch status := value.(type) {
		case model.Status:
			todo.Status = status
		case string:
			todo.Status = model.Status(status)
		default:
			return invalid
		}

		if !todo.Status.IsValid() {
			return invalid
		}
	case model.FieldPriority:
		switch priority := value.(type) {
		case model.Priority:
			todo.Priority = priority
		case string:
			todo.Priority = model.Priority(priority)
		default:
			return invalid
		}

		if !todo.Priority.IsValid() {
			return invalid
		}
	case model.FieldDueDate:
		dueDate, ok := asOptionalTime(value)
		if !ok {
			return invalid
		}

		todo.DueDate = dueDate
	case model.FieldUpdatedAt:
		updatedAt, ok := value.(time.Time)
		if !ok {
			return invalid
		}

		todo.UpdatedAt = updatedAt
	}

	return nil
}

func columnValue(todo model.Todo, field string) any {
	switch field {
	case model.FieldTitle:
		return todo.Title
	case model.FieldBody:
		return todo.Body
	case model.FieldStatus:
		return todo.Status
	case model.FieldPriority:
		return todo.Priority
	case model.FieldDueDate:
		return todo.DueDate
	case model.FieldUpdatedAt:
		return todo.UpdatedAt
	default:
		return nil
	}
}

func asOptionalString(value any) (*string, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case string:
		return &v, true
	case *string:
		return v, true
	default:
		return nil, false
	}
}

func asOptionalTime(value any) (*time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case time.Time:
		return &v, true
	case *time.Time:
		return v, true
	default:
		return nil, false
	}
}
