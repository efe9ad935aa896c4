package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page    int
	PerPage int
	Offset  int
}

// NewPaginationParams normalizes a page number for a fixed page size.
func NewPaginationParams(page, perPage int) PaginationParams {
	if page < constants.MinPage {
		page = constants.MinPage
	}
	return PaginationParams{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
	}
}

// GetPaginationParams reads ?page= from the request. The page size is fixed
// per resource; invalid page numbers fall back to the first page.
func GetPaginationParams(c *gin.Context, perPage int) PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPage)))
	if err != nil {
		page = constants.MinPage
	}
	return NewPaginationParams(page, perPage)
}

// LastPage returns the number of the last page, at least 1.
func (p PaginationParams) LastPage(total int64) int {
	if total <= 0 || p.PerPage <= 0 {
		return 1
	}
	last := int(total) / p.PerPage
	if int(total)%p.PerPage > 0 {
		last++
	}
	return last
}
