package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination carries the sanitized paging parameters of a list request.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePagination reads page/page_size query parameters, clamping page_size
// to MaxPageSize and falling back to defaults on malformed input.
func ParsePagination(c *fiber.Ctx) Pagination {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.Query("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size < 1 {
		size = DefaultPageSize
	}
	return Pagination{Page: page, PageSize: ClampPageSize(size)}
}

// ClampPageSize caps a requested page size at MaxPageSize.
func ClampPageSize(size int) int {
	if size > MaxPageSize {
		return MaxPageSize
	}
	if size < 1 {
		return DefaultPageSize
	}
	return size
}
