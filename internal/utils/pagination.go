package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wmhi/site-portal/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	offset := (page - 1) * limit

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}

// Paginate returns the page of items selected by params along with its metadata.
// A page past the end is empty, never nil.
func Paginate[T any](items []T, params PaginationParams) ([]T, PaginationResponse) {
	meta := PaginationResponse{Page: params.Page, Limit: params.Limit, Total: len(items)}
	start := min(params.Offset, len(items))
	end := min(start+params.Limit, len(items))
	page := make([]T, end-start)
	copy(page, items[start:end])
	return page, meta
}
