package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget represents a budget
//
// A budget is the highest level of organization, categories and expenses
// reference it directly. TotalAllocation and TotalExpense are maintained by
// the store and always equal the sums over the budget's categories.
type Budget struct {
	DefaultModel
	Name            string          `json:"name" example:"Trip to Lisbon"`
	Details         string          `json:"details" example:"Two weeks in May"`
	TotalAllocation decimal.Decimal `json:"totalAllocation" gorm:"type:DECIMAL(20,8);not null;default:0" example:"800"`
	TotalExpense    decimal.Decimal `json:"totalExpense" gorm:"type:DECIMAL(20,8);not null;default:0" example:"120.5"`

	// Categories are only populated when creating a budget together with
	// its categories.
	Categories []Category `json:"categories,omitempty" gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
}

func (b Budget) Self() string {
	return "Budget"
}

// BeforeSave trims whitespace and validates the name.
func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Details = strings.TrimSpace(b.Details)

	if b.Name == "" {
		return ErrBudgetNameEmpty
	}

	return nil
}

// BudgetSummary is the list projection of a budget.
type BudgetSummary struct {
	ID              uint64          `json:"id" example:"42"`
	Name            string          `json:"name" example:"Trip to Lisbon"`
	TotalAllocation decimal.Decimal `json:"totalAllocation" example:"800"`
	TotalExpense    decimal.Decimal `json:"totalExpense" example:"120.5"`
}

// Remaining returns the part of the allocation that has not been spent yet.
func (b BudgetSummary) Remaining() decimal.Decimal {
	return b.TotalAllocation.Sub(b.TotalExpense)
}
