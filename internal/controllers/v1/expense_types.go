package v1

import (
	"fmt"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/store"
	"github.com/budget-tracker/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ExpenseEditable represents all user configurable parameters
type ExpenseEditable struct {
	BudgetID   uint64          `json:"budgetId" example:"42"`                          // ID of the budget. Cannot be changed.
	CategoryID uint64          `json:"categoryId" example:"7"`                         // ID of the category, must belong to the budget
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"14.03"`    // Amount spent
	Date       types.Date      `json:"date" swaggertype:"string" example:"2024-05-12"` // Date of the expense in YYYY-MM-DD format. Defaults to today.
	Note       string          `json:"note" example:"Lunch at the harbour" default:""` // Note about the expense
}

func (editable ExpenseEditable) model() models.Expense {
	return models.Expense{
		BudgetID:   editable.BudgetID,
		CategoryID: editable.CategoryID,
		Amount:     editable.Amount,
		Date:       editable.Date,
		Note:       editable.Note,
	}
}

type ExpenseLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/expenses/1337"`    // The expense itself
	Budget   string `json:"budget" example:"https://example.com/api/v1/budgets/42"`     // The budget of the expense
	Category string `json:"category" example:"https://example.com/api/v1/categories/7"` // The category of the expense
}

func newExpenseLinks(c *gin.Context, id, budgetID, categoryID uint64) ExpenseLinks {
	url := c.GetString(string(models.DBContextURL))

	return ExpenseLinks{
		Self:     fmt.Sprintf("%s/v1/expenses/%d", url, id),
		Budget:   fmt.Sprintf("%s/v1/budgets/%d", url, budgetID),
		Category: fmt.Sprintf("%s/v1/categories/%d", url, categoryID),
	}
}

type Expense struct {
	models.Expense
	Links ExpenseLinks `json:"links"`
}

func newExpense(c *gin.Context, model models.Expense) Expense {
	return Expense{
		Expense: model,
		Links:   newExpenseLinks(c, model.ID, model.BudgetID, model.CategoryID),
	}
}

// ExpenseListEntry is the list representation of an expense, it includes the name of its category
type ExpenseListEntry struct {
	models.ExpenseWithCategory
	Links ExpenseLinks `json:"links"`
}

func newExpenseListEntry(c *gin.Context, model models.ExpenseWithCategory) ExpenseListEntry {
	return ExpenseListEntry{
		ExpenseWithCategory: model,
		Links:               newExpenseLinks(c, model.ID, model.BudgetID, model.CategoryID),
	}
}

// ExpenseListItem is either a date separator or an expense
type ExpenseListItem struct {
	Separator *types.Date       `json:"separator,omitempty" swaggertype:"string" example:"2024-05-12"` // Date of all following expenses up to the next separator
	Expense   *ExpenseListEntry `json:"expense,omitempty"`
}

func newExpenseListItems(c *gin.Context, expenses []models.ExpenseWithCategory) []ExpenseListItem {
	items := store.WithDateSeparators(expenses)

	data := make([]ExpenseListItem, 0, len(items))
	for _, item := range items {
		if item.Separator != nil {
			data = append(data, ExpenseListItem{Separator: item.Separator})
			continue
		}

		entry := newExpenseListEntry(c, *item.Expense)
		data = append(data, ExpenseListItem{Expense: &entry})
	}

	return data
}

type ExpenseListResponse struct {
	Data       []ExpenseListEntry `json:"data"`                                                        // List of expenses
	Error      *string            `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
	Pagination *Pagination        `json:"pagination"`                                                  // Pagination information
}

func (e *ExpenseListResponse) setError(message string) {
	e.Error = &message
}

type ExpenseSeparatedListResponse struct {
	Data       []ExpenseListItem `json:"data"`                                                        // List of expenses with date separators
	Error      *string           `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
	Pagination *Pagination       `json:"pagination"`                                                  // Pagination information
}

type ExpenseCreateResponse struct {
	Data  []ExpenseResponse `json:"data"`                                                        // List of the created expenses or their respective error
	Error *string           `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

func (e *ExpenseCreateResponse) setError(message string) {
	e.Error = &message
}

func (e *ExpenseCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, ExpenseResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExpenseResponse struct {
	Data  *Expense `json:"data"`                                                        // Data for the expense
	Error *string  `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

func (e *ExpenseResponse) setError(message string) {
	e.Error = &message
}

type ExpenseQueryFilter struct {
	PageQuery
	BudgetID    uint64      `form:"budget"`     // By ID of the budget. Required.
	CategoryIDs []uint64    `form:"category"`   // By ID of the category, can be repeated
	From        types.Date  `form:"from"`       // Expenses on or after this date
	Until       types.Date  `form:"until"`      // Expenses on or before this date
	Month       types.Month `form:"month"`      // Expenses in this month, cannot be combined with from and until
	Order       string      `form:"order"`      // newest (default) or oldest
	Note        string      `form:"note"`       // By text in the note
	Separators  bool        `form:"separators"` // Insert date separators
}

func (f ExpenseQueryFilter) model() (store.ExpenseFilter, error) {
	if f.BudgetID == 0 {
		return store.ExpenseFilter{}, errBudgetParameter
	}

	filter := store.ExpenseFilter{
		BudgetID:    f.BudgetID,
		CategoryIDs: f.CategoryIDs,
		From:        f.From,
		Until:       f.Until,
		Note:        f.Note,
	}

	if !f.Month.IsZero() {
		if !f.From.IsZero() || !f.Until.IsZero() {
			return store.ExpenseFilter{}, errMonthCombined
		}

		filter.From = f.Month.First()
		filter.Until = f.Month.Last()
	}

	switch f.Order {
	case "", "newest":
		filter.NewestFirst = true
	case "oldest":
		filter.NewestFirst = false
	default:
		return store.ExpenseFilter{}, errOrderInvalid
	}

	return filter, nil
}

// ExpenseListEvent is a page of expenses as sent by the stream endpoint
type ExpenseListEvent struct {
	Data       []ExpenseListEntry `json:"data"`
	Pagination *Pagination        `json:"pagination"`
}
