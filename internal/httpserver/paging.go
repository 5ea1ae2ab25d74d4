package httpserver

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func bounds(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	if page-1 > math.MaxInt/size {
		page = math.MaxInt/size + 1
	}
	return (page - 1) * size, size
}

// paginate slices items by the page and size query params. Without either
// param the full list is returned.
func paginate[T any](c echo.Context, items []T) []T {
	ps, ss := c.QueryParam("page"), c.QueryParam("size")
	if ps == "" && ss == "" {
		return items
	}
	page, _ := strconv.Atoi(ps)
	size, _ := strconv.Atoi(ss)
	from, limit := bounds(page, size)
	if from >= len(items) {
		return []T{}
	}
	return items[from:min(from+limit, len(items))]
}
