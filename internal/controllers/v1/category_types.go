package v1

import (
	"fmt"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CategoryEditable represents all user configurable parameters
type CategoryEditable struct {
	BudgetID   uint64          `json:"budgetId" example:"42"`                                     // ID of the budget the category belongs to
	Name       string          `json:"name" example:"Food" default:""`                            // Name of the category
	Note       string          `json:"note" example:"Restaurants and groceries" default:""`       // Notes about the category
	Allocation decimal.Decimal `json:"allocation" swaggertype:"string" example:"500" default:"0"` // Planned spending ceiling
}

func (editable CategoryEditable) model() models.Category {
	return models.Category{
		BudgetID:   editable.BudgetID,
		Name:       editable.Name,
		Note:       editable.Note,
		Allocation: editable.Allocation,
	}
}

type CategoryLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/categories/7"`                      // The category itself
	Expenses string `json:"expenses" example:"https://example.com/api/v1/expenses?budget=42&category=7"` // Expenses of this category
}

type Category struct {
	models.Category
	Remaining decimal.Decimal `json:"remaining" swaggertype:"string" example:"380"` // Allocation that has not been spent yet
	Links     CategoryLinks   `json:"links"`
}

func newCategory(c *gin.Context, model models.Category) Category {
	url := c.GetString(string(models.DBContextURL))

	return Category{
		Category:  model,
		Remaining: model.Remaining(),
		Links: CategoryLinks{
			Self:     fmt.Sprintf("%s/v1/categories/%d", url, model.ID),
			Expenses: fmt.Sprintf("%s/v1/expenses?budget=%d&category=%d", url, model.BudgetID, model.ID),
		},
	}
}

type CategoryListResponse struct {
	Data  []Category `json:"data"`                                                        // List of categories
	Error *string    `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

func (c *CategoryListResponse) setError(message string) {
	c.Error = &message
}

type CategoryCreateResponse struct {
	Data  []CategoryResponse `json:"data"`                                                        // List of the created categories or their respective error
	Error *string            `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

func (c *CategoryCreateResponse) setError(message string) {
	c.Error = &message
}

func (c *CategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	c.Data = append(c.Data, CategoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryResponse struct {
	Data  *Category `json:"data"`                                                        // Data for the category
	Error *string   `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

func (c *CategoryResponse) setError(message string) {
	c.Error = &message
}

type CategoryQueryFilter struct {
	BudgetID uint64 `form:"budget"` // By ID of the budget. Required.
	Name     string `form:"name"`   // By name. Supports * as wildcard.
}
