package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"todolist/infras/metrics"
	"todolist/infras/otel"
	"todolist/infras/postgres"
	"todolist/internal/domains/todo/model"
	"todolist/internal/domains/todo/model/dto"
	"todolist/internal/domains/todo/repository"
	"todolist/shared"
	"todolist/shared/constant"
	"todolist/shared/failure"
	"todolist/shared/timezone"
)

var (
	errDueDateInPast = failure.BadRequestFromString("due_date cannot be in the past")
	errTodoNotFound  = failure.NotFound("todo not found")
)

// Todo is the todo use case surface. Every operation is one unit of work against one
// transaction; reads run in a read-only snapshot on the read pool. Get, Update and Delete report a missing todo through their bool result;
// TransitionStatus and UpdatePriority treat it as an error.
type Todo interface {
	Get(ctx context.Context, id string) (model.Todo, bool, error)
	Create(ctx context.Context, req dto.CreateTodoRequest) (model.Todo, error)
	Update(ctx context.Context, id string, req dto.UpdateTodoRequest) (model.Todo, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Todo, int, error)
	GetByStatus(ctx context.Context, status model.Status) ([]model.Todo, error)
	GetOverdue(ctx context.Context) ([]model.Todo, error)
	TransitionStatus(ctx context.Context, id string, status model.Status) (model.Todo, error)
	UpdatePriority(ctx context.Context, id string, priority model.Priority) (model.Todo, error)
}

type serviceImpl struct {
	repo        repository.Todo
	tx          postgres.Transactor
	transitions model.StatusTransitions
	recorder    metrics.Recorder
	otel        otel.Otel
}

func New(
	repo repository.Todo,
	tx postgres.Transactor,
	transitions model.StatusTransitions,
	recorder metrics.Recorder,
	otel otel.Otel,
) Todo {
	return &serviceImpl{
		repo:        repo,
		tx:          tx,
		transitions: transitions,
		recorder:    recorder,
		otel:        otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (todo model.Todo, found bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.tx.WithinReadOnlyTransaction(ctx, func(ctx context.Context) error {
		var txErr error

		todo, found, txErr = s.repo.GetByID(ctx, id)

		return txErr
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get todo")

		return model.Todo{}, false, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, found, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTodoRequest) (todo model.Todo, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := timezone.Now()

	if req.DueDate != nil && req.DueDate.Before(now) {
		return model.Todo{}, errDueDateInPast
	}

	todo = req.ToModel(uuid.NewString(), now)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Add(ctx, &todo)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create todo")

		return model.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateTodoRequest) (todo model.Todo, found bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := timezone.Now()

	if due, ok := req.DueDate.Get(); ok && due.Before(now) {
		return model.Todo{}, false, errDueDateInPast
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var txErr error

		todo, found, txErr = s.repo.GetByID(ctx, id)
		if txErr != nil || !found {
			return txErr
		}

		return s.repo.Update(ctx, &todo, shared.TransformFields(req, now))
	})
	if err != nil {
		return model.Todo{}, false, s.mutationError(err, id, "failed to update todo")
	}

	if !found {
		return model.Todo{}, false, nil
	}

	return todo, true, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (deleted bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		todo, found, txErr := s.repo.GetByID(ctx, id)
		if txErr != nil || !found {
			return txErr
		}

		if txErr = s.repo.Delete(ctx, todo); txErr != nil {
			return txErr
		}

		deleted = true

		return nil
	})
	if err != nil {
		return false, s.mutationError(err, id, "failed to delete todo")
	}

	return deleted, nil
}

func (s *serviceImpl) List(ctx context.Context, filter model.ListFilter) (todos []model.Todo, total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.tx.WithinReadOnlyTransaction(ctx, func(ctx context.Context) error {
		var txErr error

		todos, total, txErr = s.repo.List(ctx, filter)

		return txErr
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to list todos")

		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, total, nil
}

func (s *serviceImpl) GetByStatus(ctx context.Context, status model.Status) (todos []model.Todo, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.GetByStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.tx.WithinReadOnlyTransaction(ctx, func(ctx context.Context) error {
		var txErr error

		todos, txErr = s.repo.GetByStatus(ctx, status)

		return txErr
	})
	if err != nil {
		log.Error().Err(err).Str("status", status.String()).Msg("failed to get todos by status")

		return nil, fmt.Errorf("failed to get todos by status: %w", err)
	}

	return todos, nil
}

func (s *serviceImpl) GetOverdue(ctx context.Context) (todos []model.Todo, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.GetOverdue")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := timezone.Now()

	err = s.tx.WithinReadOnlyTransaction(ctx, func(ctx context.Context) error {
		var txErr error

		todos, txErr = s.repo.GetOverdue(ctx, now)

		return txErr
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get overdue todos")

		return nil, fmt.Errorf("failed to get overdue todos: %w", err)
	}

	return todos, nil
}

// TransitionStatus moves a todo along the transition table. Moving to the current status is
// rejected like any other transition the table does not allow.
func (s *serviceImpl) TransitionStatus(ctx context.Context, id string, status model.Status) (todo model.Todo, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.TransitionStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var from model.Status

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var (
			found bool
			txErr error
		)

		todo, found, txErr = s.repo.GetByID(ctx, id)
		if txErr != nil {
			return txErr
		}

		if !found {
			return errTodoNotFound
		}

		from = todo.Status

		if !s.transitions.Allows(from, status) {
			return &model.StatusTransitionError{From: from, To: status}
		}

		return s.repo.Update(ctx, &todo, map[string]any{
			model.FieldStatus:    status,
			model.FieldUpdatedAt: timezone.Now(),
		})
	})
	if err != nil {
		return model.Todo{}, s.mutationError(err, id, "failed to transition todo status")
	}

	s.recorder.RecordStatusTransition(from.String(), status.String())

	return todo, nil
}

func (s *serviceImpl) UpdatePriority(ctx context.Context, id string, priority model.Priority) (todo model.Todo, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.UpdatePriority")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var (
			found bool
			txErr error
		)

		todo, found, txErr = s.repo.GetByID(ctx, id)
		if txErr != nil {
			return txErr
		}

		if !found {
			return errTodoNotFound
		}

		return s.repo.Update(ctx, &todo, map[string]any{
			model.FieldPriority:  priority,
			model.FieldUpdatedAt: timezone.Now(),
		})
	})
	if err != nil {
		return model.Todo{}, s.mutationError(err, id, "failed to update todo priority")
	}

	return todo, nil
}

// mutationError passes client errors through unchanged and logs and wraps everything else.
func (s *serviceImpl) mutationError(err error, id, msg string) error {
	if failure.IsClientError(err) {
		return err
	}

	log.Error().Err(err).Str("id", id).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}
