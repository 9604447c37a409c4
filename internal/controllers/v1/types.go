package v1

import (
	"strconv"

	"github.com/budget-tracker/backend/internal/httputil"
	"github.com/budget-tracker/backend/internal/store"
	"github.com/gin-gonic/gin"
)

// PageQuery selects a page of a list.
type PageQuery struct {
	Limit  int    `form:"limit"`  // Maximum number of items to return
	After  string `form:"after"`  // Return the items after this cursor
	Before string `form:"before"` // Return the items before this cursor. Takes precedence over after.
}

// Pagination is the pagination information of a list response.
type Pagination struct {
	Count    int    `json:"count" example:"20"`              // Number of items on this page
	Limit    int    `json:"limit" example:"20"`              // Maximum number of items on a page
	Next     string `json:"next,omitempty" example:"42"`     // Cursor for the next page. Empty on the last page.
	Previous string `json:"previous,omitempty" example:"23"` // Cursor for the previous page. Empty on the first page.
}

func newPagination[T any](page store.Page[T], request store.PageRequest) *Pagination {
	limit := request.Limit
	if limit <= 0 {
		limit = store.DefaultPageSize
	}

	return &Pagination{
		Count:    len(page.Items),
		Limit:    min(limit, store.MaxPageSize),
		Next:     page.Next,
		Previous: page.Previous,
	}
}

// reverseAmounts parses the reverseAmounts query parameter, which defaults to true.
func reverseAmounts(c *gin.Context) (bool, error) {
	param, ok := c.GetQuery("reverseAmounts")
	if !ok {
		return true, nil
	}

	reverse, err := strconv.ParseBool(param)
	if err != nil {
		return false, errReverseAmountsInvalid
	}

	return reverse, nil
}

// bindQuery binds the query string to the filter.
func bindQuery(c *gin.Context, filter any) error {
	if err := c.ShouldBindQuery(filter); err != nil {
		return httputil.ErrInvalidQuery
	}

	return nil
}
