package store

import (
	"context"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/notify"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddCategory adds a category to an existing budget and adds its allocation
// to the budget's total allocation.
//
// New categories never have expenses, a total expense set by the caller is ignored.
func (s *Store) AddCategory(ctx context.Context, category models.Category) (models.Category, error) {
	category.ID = 0
	category.TotalExpense = decimal.Zero

	err := s.transaction(ctx, "add_category", func(tx *gorm.DB, c *changes) error {
		var budget models.Budget
		err := lock(tx, &budget, "budget", category.BudgetID)
		if err != nil {
			return err
		}

		err = tx.Omit(clause.Associations).Create(&category).Error
		if err != nil {
			return err
		}

		budget.TotalAllocation = budget.TotalAllocation.Add(category.Allocation)
		err = saveBudgetTotals(tx, budget)
		if err != nil {
			return err
		}

		c.add(notify.ResourceCategory, notify.OperationCreated, category.ID, budget.ID, category.ID)
		c.add(notify.ResourceBudget, notify.OperationUpdated, budget.ID, budget.ID, 0)
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}

	return category, nil
}

// Category returns the category with the id.
func (s *Store) Category(ctx context.Context, id uint64) (models.Category, error) {
	var category models.Category
	err := first(s.db.WithContext(ctx), &category, "category", id)
	return category, err
}

// Categories returns all categories of a budget in the order they were created.
func (s *Store) Categories(ctx context.Context, budgetID uint64) ([]models.Category, error) {
	categories := make([]models.Category, 0)

	err := s.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// EditCategory updates name, note and allocation of a category. The
// difference between the new and the old allocation is applied to the
// budget's total allocation.
//
// The budget of a category cannot be changed, its total expense is always
// the stored one.
func (s *Store) EditCategory(ctx context.Context, category models.Category) (models.Category, error) {
	var stored models.Category

	err := s.transaction(ctx, "edit_category", func(tx *gorm.DB, c *changes) error {
		var budget models.Budget
		err := lockCategory(tx, &budget, &stored, category.ID)
		if err != nil {
			return err
		}

		diff := category.Allocation.Sub(stored.Allocation)

		stored.Name = category.Name
		stored.Note = category.Note
		stored.Allocation = category.Allocation

		err = tx.Omit(clause.Associations).Save(&stored).Error
		if err != nil {
			return err
		}
		c.add(notify.ResourceCategory, notify.OperationUpdated, stored.ID, stored.BudgetID, stored.ID)

		if diff.IsZero() {
			return nil
		}

		budget.TotalAllocation = budget.TotalAllocation.Add(diff)
		err = saveBudgetTotals(tx, budget)
		if err != nil {
			return err
		}
		c.add(notify.ResourceBudget, notify.OperationUpdated, budget.ID, budget.ID, 0)

		return nil
	})
	if err != nil {
		return models.Category{}, err
	}

	return stored, nil
}

// RemoveCategory deletes a category and, by foreign key cascade, its expenses.
//
// With reverseAmounts, the category's stored allocation and total expense are
// subtracted from the budget. Without it, the budget's totals are left as they
// are and no longer match its categories.
//
// Removing a category that does not exist is a no-op.
func (s *Store) RemoveCategory(ctx context.Context, category models.Category, reverseAmounts bool) error {
	return s.transaction(ctx, "remove_category", func(tx *gorm.DB, c *changes) error {
		return removeCategory(tx, c, category.ID, reverseAmounts)
	})
}

func removeCategory(tx *gorm.DB, c *changes, id uint64, reverseAmounts bool) error {
	var stored models.Category
	var budget models.Budget
	err := lockCategory(tx, &budget, &stored, id)
	if isNotFound(err) {
		return nil
	} else if err != nil {
		return err
	}

	err = tx.Delete(&models.Category{}, stored.ID).Error
	if err != nil {
		return err
	}
	c.add(notify.ResourceCategory, notify.OperationDeleted, stored.ID, stored.BudgetID, stored.ID)

	if !reverseAmounts {
		log.Warn().Uint64("category", stored.ID).Uint64("budget", budget.ID).Msg("category removed without reversing its amounts, budget totals are no longer consistent")
		return nil
	}

	budget.TotalAllocation = budget.TotalAllocation.Sub(stored.Allocation)
	budget.TotalExpense = budget.TotalExpense.Sub(stored.TotalExpense)

	err = saveBudgetTotals(tx, budget)
	if err != nil {
		return err
	}
	c.add(notify.ResourceBudget, notify.OperationUpdated, budget.ID, budget.ID, 0)

	return nil
}
