package todo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"todolist/config"
	"todolist/infras/otel"
	"todolist/internal/domains/todo/model"
	"todolist/internal/domains/todo/model/dto"
	"todolist/internal/domains/todo/service"
	"todolist/shared/constant"
	"todolist/shared/failure"
	"todolist/shared/validator"
	"todolist/transport/http/response"
)

var (
	errTodoNotFound  = failure.NotFound("todo not found")
	errInvalidStatus = failure.BadRequestFromString("status must be one of not_started in_progress completed")
)

type Handler struct {
	service service.Todo
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Todo, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/todos", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTodo)
		routerGroup.Get("/", handler.GetTodos)
		routerGroup.Get("/overdue", handler.GetOverdueTodos)
		routerGroup.Get("/status/{status}", handler.GetTodosByStatus)
		routerGroup.Get("/{id}", handler.GetTodoByID)
		routerGroup.Patch("/{id}", handler.UpdateTodo)
		routerGroup.Delete("/{id}", handler.DeleteTodo)
		routerGroup.Post("/{id}/transition", handler.TransitionTodoStatus)
		routerGroup.Patch("/{id}/priority", handler.UpdateTodoPriority)
	})
}

// CreateTodo handles the creation of a new todo item.
// @Summary Create a new todo item
// @Description Create a new todo item. New todos always start as not_started.
// @Tags Todo
// @Accept json
// @Produce json
// @Param request body dto.CreateTodoRequest true "Create Todo Request"
// @Success 201 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos [post]
func (handler *Handler) CreateTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTodo")
	defer scope.End()

	req := dto.CreateTodoRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	todo, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create todo")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Todo created successfully")

	res := dto.TodoResponse{}
	res.FromModel(todo)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetTodos lists todo items.
// @Summary List todo items
// @Description Filter, sort and paginate todo items. Datetimes must be RFC3339 with an offset.
// @Tags Todo
// @Produce json
// @Param search query string false "Case-insensitive match on title or body"
// @Param priority query string false "Priority" Enums(low, medium, high)
// @Param status query string false "Status" Enums(not_started, in_progress, completed)
// @Param created_after query string false "Inclusive lower bound on created_at"
// @Param created_before query string false "Inclusive upper bound on created_at"
// @Param due_after query string false "Inclusive lower bound on due_date"
// @Param due_before query string false "Inclusive upper bound on due_date"
// @Param sort_by query string false "Sort field" Enums(created_at, updated_at, due_date, priority, title)
// @Param sort_order query string false "Sort order" Enums(asc, desc)
// @Param page query integer false "Page number, starting at 1"
// @Param page_size query integer false "Page size"
// @Success 200 {object} dto.ListTodosResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos [get]
func (handler *Handler) GetTodos(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodos")
	defer scope.End()

	pagination := handler.cfg.App.Pagination
	req := dto.ListTodosRequest{}

	if err := req.FromRequest(request, pagination.DefaultPageSize, pagination.MaxPageSize); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to parse list query")

		response.WithError(writer, err)

		return
	}

	todos, total, err := handler.service.List(ctx, req.Filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list todos")

		response.WithError(writer, err)

		return
	}

	res := dto.ListTodosResponse{}
	res.FromModels(todos, total, req.Pagination)

	response.WithJSON(writer, http.StatusOK, res)
}

// GetOverdueTodos lists todo items past their due date.
// @Summary List overdue todo items
// @Description Todos with a due date before now that are not completed, earliest due first.
// @Tags Todo
// @Produce json
// @Success 200 {array} dto.TodoResponse
// @Failure 500 {object} response.Error
// @Router /v1/todos/overdue [get]
func (handler *Handler) GetOverdueTodos(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOverdueTodos")
	defer scope.End()

	todos, err := handler.service.GetOverdue(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get overdue todos")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, dto.FromModels(todos))
}

// GetTodosByStatus lists todo items in one status.
// @Summary List todo items by status
// @Tags Todo
// @Produce json
// @Param status path string true "Status" Enums(not_started, in_progress, completed)
// @Success 200 {array} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/status/{status} [get]
func (handler *Handler) GetTodosByStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodosByStatus")
	defer scope.End()

	status := model.Status(chi.URLParam(request, constant.RequestParamStatus))
	if !status.IsValid() {
		response.WithError(writer, errInvalidStatus)

		return
	}

	todos, err := handler.service.GetByStatus(ctx, status)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todos by status")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, dto.FromModels(todos))
}

// GetTodoByID retrieves a todo item by its ID.
// @Summary Get a todo item by ID
// @Tags Todo
// @Produce json
// @Param id path string true "Todo ID" Format(uuid)
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id} [get]
func (handler *Handler) GetTodoByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodoByID")
	defer scope.End()

	id, err := todoID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	todo, found, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get todo")

		response.WithError(writer, err)

		return
	}

	if !found {
		response.WithError(writer, errTodoNotFound)

		return
	}

	res := dto.TodoResponse{}
	res.FromModel(todo)

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateTodo partially updates a todo item.
// @Summary Update a todo item
// @Description Only the fields present in the body change. Send null to clear body or due_date.
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path string true "Todo ID" Format(uuid)
// @Param request body dto.UpdateTodoRequest true "Update Todo Request"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id} [patch]
func (handler *Handler) UpdateTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTodo")
	defer scope.End()

	id, err := todoID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.UpdateTodoRequest{}

	if err = validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	todo, found, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update todo")

		response.WithError(writer, err)

		return
	}

	if !found {
		response.WithError(writer, errTodoNotFound)

		return
	}

	res := dto.TodoResponse{}
	res.FromModel(todo)

	response.WithJSON(writer, http.StatusOK, res)
}

// DeleteTodo deletes a todo item by its ID.
// @Summary Delete a todo item
// @Tags Todo
// @Param id path string true "Todo ID" Format(uuid)
// @Success 204
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id} [delete]
func (handler *Handler) DeleteTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTodo")
	defer scope.End()

	id, err := todoID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	deleted, err := handler.service.Delete(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete todo")

		response.WithError(writer, err)

		return
	}

	if !deleted {
		response.WithError(writer, errTodoNotFound)

		return
	}

	scope.AddEvent("Todo deleted successfully")

	response.WithNoContent(writer)
}

// TransitionTodoStatus moves a todo item to another status.
// @Summary Transition the status of a todo item
// @Description Moving to the current status is rejected.
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path string true "Todo ID" Format(uuid)
// @Param request body dto.TransitionRequest true "Target status"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id}/transition [post]
func (handler *Handler) TransitionTodoStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".TransitionTodoStatus")
	defer scope.End()

	id, err := todoID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.TransitionRequest{}

	if err = validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	todo, err := handler.service.TransitionStatus(ctx, id, req.Status)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("id", id).Msg("failed to transition todo status")

		response.WithError(writer, err)

		return
	}

	res := dto.TodoResponse{}
	res.FromModel(todo)

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateTodoPriority sets the priority of a todo item.
// @Summary Update the priority of a todo item
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path string true "Todo ID" Format(uuid)
// @Param request body dto.PriorityRequest true "New priority"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id}/priority [patch]
func (handler *Handler) UpdateTodoPriority(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTodoPriority")
	defer scope.End()

	id, err := todoID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.PriorityRequest{}

	if err = validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	todo, err := handler.service.UpdatePriority(ctx, id, req.Priority)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("id", id).Msg("failed to update todo priority")

		response.WithError(writer, err)

		return
	}

	res := dto.TodoResponse{}
	res.FromModel(todo)

	response.WithJSON(writer, http.StatusOK, res)
}

func todoID(request *http.Request) (string, error) {
	id := chi.URLParam(request, constant.RequestParamID)
	if err := uuid.Validate(id); err != nil {
		return "", failure.InvalidIDParam
	}

	return id, nil
}
