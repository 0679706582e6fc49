package dto

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"todolist/internal/domains/todo/model"
	"todolist/shared"
	"todolist/shared/constant"
	gDto "todolist/shared/dto"
	"todolist/shared/failure"
	"todolist/shared/timezone"
	"todolist/shared/validator"
)

const (
	RequestParamSearch        = "search"
	RequestParamPriority      = "priority"
	RequestParamStatus        = "status"
	RequestParamCreatedAfter  = "created_after"
	RequestParamCreatedBefore = "created_before"
	RequestParamDueAfter      = "due_after"
	RequestParamDueBefore     = "due_before"
)

var (
	errTitleNull    = errors.New("title cannot be null")
	errTitleEmpty   = errors.New("title cannot be empty")
	errStatusNull   = errors.New("status cannot be null")
	errPriorityNull = errors.New("priority cannot be null")
)

func init() {
	validator.RegisterCustomTypeFunc(gDto.OptionalValue,
		gDto.Optional[model.Status]{},
		gDto.Optional[model.Priority]{},
	)
}

type CreateTodoRequest struct {
	Title    string          `json:"title"    validate:"required,min=1,max=64"`
	Body     *string         `json:"body"`
	Priority *model.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate  *time.Time      `json:"due_date"`
}

func (r *CreateTodoRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = trimPtr(r.Body)
}

// ToModel builds the new entity with creation defaults. Both timestamps are set to now.
func (r *CreateTodoRequest) ToModel(id string, now time.Time) model.Todo {
	todo := model.NewTodo(id, r.Title, now)
	todo.Body = r.Body
	todo.DueDate = r.DueDate

	if r.Priority != nil {
		todo.Priority = *r.Priority
	}

	return todo
}

// UpdateTodoRequest carries a partial update. Omitted fields are left untouched; an explicit
// null clears body or due_date.
type UpdateTodoRequest struct {
	Title    gDto.Optional[string]         `db:"title"    json:"title"    validate:"omitempty,max=64"`
	Body     gDto.Optional[string]         `db:"body"     json:"body"`
	Status   gDto.Optional[model.Status]   `db:"status"   json:"status"   validate:"omitempty,oneof=not_started in_progress completed"`
	Priority gDto.Optional[model.Priority] `db:"priority" json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate  gDto.Optional[time.Time]      `db:"due_date" json:"due_date"`
}

func (r *UpdateTodoRequest) Normalize() {
	if title, ok := r.Title.Get(); ok {
		r.Title = gDto.Some(strings.TrimSpace(title))
	}

	if body, ok := r.Body.Get(); ok {
		r.Body = gDto.Some(strings.TrimSpace(body))
	}
}

// Validate rejects nulls for columns that cannot be empty.
func (r *UpdateTodoRequest) Validate() error {
	if r.Title.IsNull() {
		return errTitleNull
	}

	if title, ok := r.Title.Get(); ok && title == "" {
		return errTitleEmpty
	}

	if r.Status.IsNull() {
		return errStatusNull
	}

	if r.Priority.IsNull() {
		return errPriorityNull
	}

	return nil
}

type TransitionRequest struct {
	Status model.Status `json:"status" validate:"required,oneof=not_started in_progress completed"`
}

type PriorityRequest struct {
	Priority model.Priority `json:"priority" validate:"required,oneof=low medium high"`
}

type TodoResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Body     *string `json:"body"`
	Status   string  `json:"status"`
	Priority string  `json:"priority"`
	gDto.Metadata
	DueDate *string `json:"due_date"`
}

func (r *TodoResponse) FromModel(model model.Todo) {
	r.ID = model.ID
	r.Title = model.Title
	r.Body = model.Body
	r.Status = model.Status.String()
	r.Priority = model.Priority.String()
	r.Metadata.FromModel(model.Metadata)
	r.DueDate = timezone.FormatPtr(model.DueDate, constant.DateFormat)
}

func FromModels(models []model.Todo) []TodoResponse {
	res := make([]TodoResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

type ListTodosResponse struct {
	Todos      []TodoResponse `json:"todos"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

func (r *ListTodosResponse) FromModels(models []model.Todo, total int, pagination gDto.Pagination) {
	r.Todos = FromModels(models)
	r.Total = total
	r.TotalPages = shared.CalculateTotalPage(total, pagination.PageSize)
	r.Page = pagination.Page
	r.PageSize = pagination.PageSize
}

// ListTodosRequest is the query string of the list endpoint.
type ListTodosRequest struct {
	Filter     model.ListFilter
	Pagination gDto.Pagination
}

// FromRequest parses and validates the list query string. Datetimes must be RFC3339 with an
// offset; enum values and sort options must be known.
func (l *ListTodosRequest) FromRequest(r *http.Request, defaultPageSize, maxPageSize int) error {
	if err := l.Pagination.FromRequest(r, defaultPageSize, maxPageSize); err != nil {
		return err
	}

	query := r.URL.Query()
	filter := model.ListFilter{
		SortBy:    model.SortField(constant.DefaultValueSortBy),
		SortOrder: model.SortOrder(constant.DefaultValueSortDir),
		Offset:    l.Pagination.Offset(),
		Limit:     l.Pagination.PageSize,
	}

	if search := strings.TrimSpace(query.Get(RequestParamSearch)); search != "" {
		filter.Search = &search
	}

	if value := query.Get(RequestParamPriority); value != "" {
		priority := model.Priority(value)
		if !priority.IsValid() {
			return failure.BadRequestFromString("priority must be one of low medium high")
		}

		filter.Priority = &priority
	}

	if value := query.Get(RequestParamStatus); value != "" {
		status := model.Status(value)
		if !status.IsValid() {
			return failure.BadRequestFromString("status must be one of not_started in_progress completed")
		}

		filter.Status = &status
	}

	if value := query.Get(constant.RequestParamSortBy); value != "" {
		filter.SortBy = model.SortField(value)
		if !filter.SortBy.IsValid() {
			return failure.BadRequestFromString("sort_by must be one of created_at updated_at due_date priority title")
		}
	}

	if value := query.Get(constant.RequestParamSortDir); value != "" {
		filter.SortOrder = model.SortOrder(strings.ToLower(value))
		if !filter.SortOrder.IsValid() {
			return failure.BadRequestFromString("sort_order must be one of asc desc")
		}
	}

	ranges := []struct {
		param  string
		target **time.Time
	}{
		{RequestParamCreatedAfter, &filter.CreatedAfter},
		{RequestParamCreatedBefore, &filter.CreatedBefore},
		{RequestParamDueAfter, &filter.DueAfter},
		{RequestParamDueBefore, &filter.DueBefore},
	}

	for _, rng := range ranges {
		parsed, err := parseTime(query.Get(rng.param), rng.param)
		if err != nil {
			return err
		}

		*rng.target = parsed
	}

	l.Filter = filter

	return nil
}

func parseTime(value, param string) (*time.Time, error) {
	if value == "" {
		return nil, nil //nolint:nilnil
	}

	// An unescaped "+" offset arrives as a space.
	parsed, err := time.Parse(time.RFC3339, strings.ReplaceAll(value, " ", "+"))
	if err != nil {
		return nil, failure.BadRequestFromString(param + " must be an RFC3339 timestamp with a timezone offset")
	}

	return &parsed, nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)

	return &trimmed
}
