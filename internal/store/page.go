package store

import (
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/budget-tracker/backend/internal/types"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrCursorInvalid = errors.New("the pagination cursor is not valid")

// PageRequest selects one page of a list.
//
// After and Before are opaque cursors taken from a previous Page. At most one
// of them should be set, Before takes precedence.
type PageRequest struct {
	After  string
	Before string
	Limit  int
}

func (p PageRequest) limit() int {
	if p.Limit <= 0 {
		return DefaultPageSize
	}

	return min(p.Limit, MaxPageSize)
}

// ids decodes cursors of lists that are ordered by id only.
func (p PageRequest) ids() (after, before uint64, err error) {
	if p.After != "" {
		after, err = strconv.ParseUint(p.After, 10, 64)
		if err != nil || after == 0 {
			return 0, 0, fmt.Errorf("%w: %q", ErrCursorInvalid, p.After)
		}
	}

	if p.Before != "" {
		before, err = strconv.ParseUint(p.Before, 10, 64)
		if err != nil || before == 0 {
			return 0, 0, fmt.Errorf("%w: %q", ErrCursorInvalid, p.Before)
		}
	}

	return after, before, nil
}

// Page is one page of a list with the cursors to continue in either direction.
// Next is empty on the last page, Previous on the first.
type Page[T any] struct {
	Items    []T    `json:"items"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

// paginate builds the page from a query result that fetched up to limit+1
// rows. Rows of a backward query are in reverse order.
func paginate[T any](rows []T, limit int, backward, hasCursor bool, cursor func(T) string) Page[T] {
	more := len(rows) > limit
	if more {
		rows = rows[:limit]
	}

	if backward {
		slices.Reverse(rows)
	}

	page := Page[T]{Items: rows}
	if page.Items == nil {
		page.Items = []T{}
	}

	if len(rows) == 0 {
		return page
	}

	if backward {
		// Going backward always comes from a later page
		page.Next = cursor(rows[len(rows)-1])
		if more {
			page.Previous = cursor(rows[0])
		}
		return page
	}

	if more {
		page.Next = cursor(rows[len(rows)-1])
	}
	if hasCursor {
		page.Previous = cursor(rows[0])
	}

	return page
}

func idCursor(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// expenseKey is the position of an expense in a list ordered by date and id.
type expenseKey struct {
	date types.Date
	id   uint64
}

func (k expenseKey) cursor() string {
	return base64.RawURLEncoding.EncodeToString(fmt.Appendf(nil, "%s/%d", k.date, k.id))
}

func parseExpenseCursor(s string) (expenseKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return expenseKey{}, fmt.Errorf("%w: %q", ErrCursorInvalid, s)
	}

	date, id, ok := strings.Cut(string(raw), "/")
	if !ok {
		return expenseKey{}, fmt.Errorf("%w: %q", ErrCursorInvalid, s)
	}

	d, err := types.ParseDate(date)
	if err != nil {
		return expenseKey{}, fmt.Errorf("%w: %q", ErrCursorInvalid, s)
	}

	i, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return expenseKey{}, fmt.Errorf("%w: %q", ErrCursorInvalid, s)
	}

	return expenseKey{date: d, id: i}, nil
}
