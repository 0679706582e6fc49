package repository

import (
	"strings"
	"time"

	"todolist/internal/domains/todo/model"
	gDto "todolist/shared/dto"
)

const (
	argSearchTitle   = "search_title"
	argSearchBody    = "search_body"
	argCreatedAfter  = "created_after"
	argCreatedBefore = "created_before"
	argDueAfter      = "due_after"
	argDueBefore     = "due_before"
	argNow           = "now"
)

// BuildListQuery translates filter into the ordering, window and WHERE clause run by List. The
// same clause backs the total count, so the count ignores the window.
func BuildListQuery(filter model.ListFilter) (gDto.QueryParams, gDto.FilterGroup) {
	where := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorOr}
		search.Add(
			likeFilter(model.FieldTitle, argSearchTitle, *filter.Search),
			likeFilter(model.FieldBody, argSearchBody, *filter.Search),
		)

		where.Add(search)
	}

	if filter.Priority != nil {
		where.Add(eqFilter(model.FieldPriority, *filter.Priority))
	}

	if filter.Status != nil {
		where.Add(eqFilter(model.FieldStatus, *filter.Status))
	}

	addRange(&where, model.FieldCreatedAt, argCreatedAfter, argCreatedBefore, filter.CreatedAfter, filter.CreatedBefore)
	addRange(&where, model.FieldDueDate, argDueAfter, argDueBefore, filter.DueAfter, filter.DueBefore)

	sortBy := filter.SortBy
	if !sortBy.IsValid() {
		sortBy = model.SortByCreatedAt
	}

	sortOrder := filter.SortOrder
	if !sortOrder.IsValid() {
		sortOrder = model.SortOrderDesc
	}

	params := gDto.QueryParams{
		Offset:  max(filter.Offset, 0),
		Limit:   max(filter.Limit, 0),
		SortBy:  string(sortBy),
		SortDir: gDto.NormalizeSortDir(string(sortOrder)),
	}

	return params, where
}

// BuildStatusQuery selects every todo in status, newest first.
func BuildStatusQuery(status model.Status) (gDto.QueryParams, gDto.FilterGroup) {
	where := gDto.FilterGroup{}
	where.Add(eqFilter(model.FieldStatus, status))

	return gDto.QueryParams{SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirDesc}, where
}

// BuildOverdueQuery selects todos due before now that are not completed, earliest due first.
func BuildOverdueQuery(now time.Time) (gDto.QueryParams, gDto.FilterGroup) {
	where := gDto.FilterGroup{}
	where.Add(
		gDto.Filter{
			Field:    model.FieldDueDate,
			Operator: gDto.FilterIsNotNull,
			Table:    model.TableName,
		},
		gDto.Filter{
			ArgName:  argNow,
			Field:    model.FieldDueDate,
			Value:    now,
			Operator: gDto.FilterOperatorLess,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldStatus,
			Value:    model.StatusCompleted,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		},
	)

	return gDto.QueryParams{SortBy: model.FieldDueDate, SortDir: gDto.SortDirAsc}, where
}

func eqFilter(field string, value any) gDto.Filter {
	return gDto.Filter{
		Field:    field,
		Value:    value,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	}
}

func likeFilter(field, argName, value string) gDto.Filter {
	return gDto.Filter{
		ArgName:  argName,
		Field:    field,
		Value:    value,
		Operator: gDto.FilterOperatorLike,
		Table:    model.TableName,
	}
}

func addRange(where *gDto.FilterGroup, field, afterArg, beforeArg string, after, before *time.Time) {
	if after != nil {
		where.Add(gDto.Filter{
			ArgName:  afterArg,
			Field:    field,
			Value:    *after,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		})
	}

	if before != nil {
		where.Add(gDto.Filter{
			ArgName:  beforeArg,
			Field:    field,
			Value:    *before,
			Operator: gDto.FilterOperatorLessEq,
			Table:    model.TableName,
		})
	}
}
