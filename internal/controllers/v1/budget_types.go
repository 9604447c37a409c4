package v1

import (
	"fmt"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetEditable represents all user configurable parameters
type BudgetEditable struct {
	Name    string `json:"name" example:"Trip to Lisbon" default:""`      // Name of the budget
	Details string `json:"details" example:"Two weeks in May" default:""` // Details about the budget
}

// BudgetCreate is a budget with the categories it is created with
type BudgetCreate struct {
	Name       string             `json:"name" example:"Trip to Lisbon" default:""`      // Name of the budget
	Details    string             `json:"details" example:"Two weeks in May" default:""` // Details about the budget
	Categories []CategoryEditable `json:"categories"`                                    // Categories of the budget. The budgetId of each category is ignored.
}

func (editable BudgetCreate) model() models.Budget {
	budget := models.Budget{
		Name:    editable.Name,
		Details: editable.Details,
	}

	for _, category := range editable.Categories {
		budget.Categories = append(budget.Categories, category.model())
	}

	return budget
}

type BudgetLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/budgets/42"`                 // The budget itself
	Categories string `json:"categories" example:"https://example.com/api/v1/categories?budget=42"` // Categories of this budget
	Expenses   string `json:"expenses" example:"https://example.com/api/v1/expenses?budget=42"`     // Expenses of this budget
	Stream     string `json:"stream" example:"https://example.com/api/v1/budgets/42/stream"`        // Live updates of this budget and its categories
	Export     string `json:"export" example:"https://example.com/api/v1/budgets/42/export"`        // XLSX export of this budget
}

func newBudgetLinks(c *gin.Context, id uint64) BudgetLinks {
	url := c.GetString(string(models.DBContextURL))

	return BudgetLinks{
		Self:       fmt.Sprintf("%s/v1/budgets/%d", url, id),
		Categories: fmt.Sprintf("%s/v1/categories?budget=%d", url, id),
		Expenses:   fmt.Sprintf("%s/v1/expenses?budget=%d", url, id),
		Stream:     fmt.Sprintf("%s/v1/budgets/%d/stream", url, id),
		Export:     fmt.Sprintf("%s/v1/budgets/%d/export", url, id),
	}
}

type Budget struct {
	models.Budget
	Remaining  decimal.Decimal `json:"remaining" example:"679.5"` // Allocation that has not been spent yet
	Links      BudgetLinks     `json:"links"`
	Categories []Category      `json:"categories,omitempty"` // Categories created together with the budget
}

func newBudget(c *gin.Context, model models.Budget) Budget {
	budget := Budget{
		Budget:    model,
		Remaining: model.TotalAllocation.Sub(model.TotalExpense),
		Links:     newBudgetLinks(c, model.ID),
	}

	for _, category := range model.Categories {
		budget.Categories = append(budget.Categories, newCategory(c, category))
	}

	return budget
}

// BudgetSummary is the list representation of a budget
type BudgetSummary struct {
	models.BudgetSummary
	Remaining decimal.Decimal `json:"remaining" example:"679.5"` // Allocation that has not been spent yet
	Links     BudgetLinks     `json:"links"`
}

func newBudgetSummary(c *gin.Context, model models.BudgetSummary) BudgetSummary {
	return BudgetSummary{
		BudgetSummary: model,
		Remaining:     model.Remaining(),
		Links:         newBudgetLinks(c, model.ID),
	}
}

type BudgetListResponse struct {
	Data       []BudgetSummary `json:"data"`                                                        // List of budgets
	Error      *string         `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
	Pagination *Pagination     `json:"pagination"`                                                  // Pagination information
}

func (b *BudgetListResponse) setError(message string) {
	b.Error = &message
}

type BudgetCreateResponse struct {
	Data  []BudgetResponse `json:"data"`                                                        // List of the created budgets or their respective error
	Error *string          `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

func (b *BudgetCreateResponse) setError(message string) {
	b.Error = &message
}

func (b *BudgetCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BudgetResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetResponse struct {
	Data  *Budget `json:"data"`                                                        // Data for the budget
	Error *string `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

func (b *BudgetResponse) setError(message string) {
	b.Error = &message
}

// BudgetState is a budget with its categories as sent by the stream endpoint
type BudgetState struct {
	Budget     Budget     `json:"budget"`
	Categories []Category `json:"categories"`
}

// BudgetListEvent is a page of budgets as sent by the stream endpoint
type BudgetListEvent struct {
	Data       []BudgetSummary `json:"data"`
	Pagination *Pagination     `json:"pagination"`
}
