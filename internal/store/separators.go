package store

import (
	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/types"
)

// ExpenseListItem is either a date separator or an expense.
type ExpenseListItem struct {
	Separator *types.Date                 `json:"separator,omitempty"`
	Expense   *models.ExpenseWithCategory `json:"expense,omitempty"`
}

// WithDateSeparators inserts a separator before every expense whose date
// differs from the one of the previous expense, including the first one.
func WithDateSeparators(expenses []models.ExpenseWithCategory) []ExpenseListItem {
	items := make([]ExpenseListItem, 0, len(expenses)*2)

	for i := range expenses {
		if i == 0 || !expenses[i].Date.Equal(expenses[i-1].Date) {
			date := expenses[i].Date
			items = append(items, ExpenseListItem{Separator: &date})
		}

		items = append(items, ExpenseListItem{Expense: &expenses[i]})
	}

	return items
}
