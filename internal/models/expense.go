package models

import (
	"strings"

	"github.com/budget-tracker/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a single dated spend in one category of a budget.
type Expense struct {
	DefaultModel
	BudgetID   uint64          `json:"budgetId" gorm:"not null;index:index_expenses_budget_id" example:"42"`
	Budget     Budget          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID uint64          `json:"categoryId" gorm:"not null;index:index_expenses_category_id" example:"7"`
	Category   Category        `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8);not null;default:0" example:"14.03"`
	Date       types.Date      `json:"date" gorm:"not null;index:index_expenses_date" example:"2024-05-12"`
	Note       string          `json:"note" example:"Lunch"`
}

func (e Expense) Self() string {
	return "Expense"
}

// BeforeSave trims the note and defaults the date to today.
func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Note = strings.TrimSpace(e.Note)

	if e.Date.IsZero() {
		e.Date = types.Today()
	}

	return nil
}

// ExpenseWithCategory is an expense with the name of its category, used for
// listings so that the category does not need to be fetched separately.
type ExpenseWithCategory struct {
	ID           uint64          `json:"id" example:"1337"`
	BudgetID     uint64          `json:"budgetId" example:"42"`
	CategoryID   uint64          `json:"categoryId" example:"7"`
	CategoryName string          `json:"categoryName" example:"Food"`
	Amount       decimal.Decimal `json:"amount" example:"14.03"`
	Date         types.Date      `json:"date" example:"2024-05-12"`
	Note         string          `json:"note" example:"Lunch"`
}
