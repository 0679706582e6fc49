package dto

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"todolist/shared/constant"
	"todolist/shared/failure"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams describes the window and ordering applied by the generic repository.
type QueryParams struct {
	Offset  int    `json:"offset"   validate:"gte=0"`
	Limit   int    `json:"limit"    validate:"gte=0"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// Pagination is the page based window exposed to API clients.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// FromRequest reads `page` and `page_size` from the query string. Missing values fall back
// to page 1 and defaultPageSize; malformed or out of range values are rejected.
// Example:
//
//	p := dto.Pagination{}
//	err := p.FromRequest(req, cfg.App.Pagination.DefaultPageSize, cfg.App.Pagination.MaxPageSize)
func (p *Pagination) FromRequest(r *http.Request, defaultPageSize, maxPageSize int) error {
	queryParams := r.URL.Query()

	p.Page = constant.DefaultValuePage
	p.PageSize = defaultPageSize

	if page := queryParams.Get(constant.RequestParamPage); page != "" {
		pageInt, err := strconv.Atoi(page)
		if err != nil || pageInt < 1 {
			return failure.InvalidPageParam
		}

		p.Page = pageInt
	}

	if pageSize := queryParams.Get(constant.RequestParamPageSize); pageSize != "" {
		pageSizeInt, err := strconv.Atoi(pageSize)
		if err != nil || pageSizeInt < 1 || pageSizeInt > maxPageSize {
			return failure.InvalidPageSizeParam
		}

		p.PageSize = pageSizeInt
	}

	if p.Page-1 > math.MaxInt/p.PageSize {
		return failure.InvalidPageParam
	}

	return nil
}

func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}

	return (p.Page - 1) * p.PageSize
}

// NormalizeSortDir maps any casing of asc/desc onto the SQL keyword, or "" when invalid.
func NormalizeSortDir(dir string) string {
	switch strings.ToUpper(dir) {
	case SortDirAsc:
		return SortDirAsc
	case SortDirDesc:
		return SortDirDesc
	default:
		return ""
	}
}
