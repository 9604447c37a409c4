package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category represents a spending category of a budget.
type Category struct {
	DefaultModel
	BudgetID     uint64          `json:"budgetId" gorm:"not null;index:index_categories_budget_id" example:"42"` // ID of the budget the category belongs to
	Budget       Budget          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Name         string          `json:"name" example:"Food"`                                                   // Name of the category
	Note         string          `json:"note" example:"Restaurants and groceries"`                              // Notes about the category
	Allocation   decimal.Decimal `json:"allocation" gorm:"type:DECIMAL(20,8);not null;default:0" example:"500"` // Planned spending ceiling
	TotalExpense decimal.Decimal `json:"totalExpense" gorm:"type:DECIMAL(20,8);not null;default:0" example:"120"`
}

func (c Category) Self() string {
	return "Category"
}

// BeforeSave trims whitespace and validates the name.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	if c.Name == "" {
		return ErrCategoryNameEmpty
	}

	return nil
}

// Remaining returns the part of the allocation that has not been spent yet.
func (c Category) Remaining() decimal.Decimal {
	return c.Allocation.Sub(c.TotalExpense)
}
