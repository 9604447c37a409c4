package store

import (
	"context"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/notify"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateBudget creates a budget together with its categories.
//
// Totals supplied by the caller are ignored. The budget's totals are the sums
// over the created categories, which always start without expenses.
func (s *Store) CreateBudget(ctx context.Context, budget models.Budget) (models.Budget, error) {
	categories := budget.Categories

	budget.ID = 0
	budget.Categories = nil
	budget.TotalAllocation = decimal.Zero
	budget.TotalExpense = decimal.Zero

	err := s.transaction(ctx, "create_budget", func(tx *gorm.DB, c *changes) error {
		err := tx.Omit(clause.Associations).Create(&budget).Error
		if err != nil {
			return err
		}
		c.add(notify.ResourceBudget, notify.OperationCreated, budget.ID, budget.ID, 0)

		created := make([]models.Category, 0, len(categories))
		allocation := decimal.Zero
		expense := decimal.Zero

		for _, category := range categories {
			category.ID = 0
			category.BudgetID = budget.ID
			category.TotalExpense = decimal.Zero

			err := tx.Omit(clause.Associations).Create(&category).Error
			if err != nil {
				return err
			}
			c.add(notify.ResourceCategory, notify.OperationCreated, category.ID, budget.ID, category.ID)

			allocation = allocation.Add(category.Allocation)
			expense = expense.Add(category.TotalExpense)
			created = append(created, category)
		}

		budget.TotalAllocation = allocation
		budget.TotalExpense = expense
		budget.Categories = created

		return saveBudgetTotals(tx, budget)
	})
	if err != nil {
		return models.Budget{}, err
	}

	return budget, nil
}

// Budget returns the budget with the id.
func (s *Store) Budget(ctx context.Context, id uint64) (models.Budget, error) {
	var budget models.Budget
	err := first(s.db.WithContext(ctx), &budget, "budget", id)
	return budget, err
}

// Budgets returns one page of budget summaries, ordered by creation.
func (s *Store) Budgets(ctx context.Context, page PageRequest) (Page[models.BudgetSummary], error) {
	limit := page.limit()

	after, before, err := page.ids()
	if err != nil {
		return Page[models.BudgetSummary]{}, err
	}

	q := s.db.WithContext(ctx).
		Model(&models.Budget{}).
		Select("id, name, total_allocation, total_expense")

	backward := before != 0
	switch {
	case backward:
		q = q.Where("id < ?", before).Order("id DESC")
	case after != 0:
		q = q.Where("id > ?", after).Order("id ASC")
	default:
		q = q.Order("id ASC")
	}

	var budgets []models.BudgetSummary
	err = q.Limit(limit + 1).Scan(&budgets).Error
	if err != nil {
		return Page[models.BudgetSummary]{}, err
	}

	return paginate(budgets, limit, backward, page.After != "", func(b models.BudgetSummary) string {
		return idCursor(b.ID)
	}), nil
}

// EditBudget updates name and details of an existing budget.
//
// The totals are always the stored ones, values set by the caller are ignored.
func (s *Store) EditBudget(ctx context.Context, budget models.Budget) (models.Budget, error) {
	var stored models.Budget

	err := s.transaction(ctx, "edit_budget", func(tx *gorm.DB, c *changes) error {
		err := lock(tx, &stored, "budget", budget.ID)
		if err != nil {
			return err
		}

		stored.Name = budget.Name
		stored.Details = budget.Details

		err = tx.Omit(clause.Associations).Save(&stored).Error
		if err != nil {
			return err
		}

		c.add(notify.ResourceBudget, notify.OperationUpdated, stored.ID, stored.ID, 0)
		return nil
	})
	if err != nil {
		return models.Budget{}, err
	}

	return stored, nil
}

// RemoveBudget deletes a budget. Its categories and expenses are deleted
// by the database. Removing a budget that does not exist is a no-op.
func (s *Store) RemoveBudget(ctx context.Context, budget models.Budget) error {
	return s.transaction(ctx, "remove_budget", func(tx *gorm.DB, c *changes) error {
		result := tx.Delete(&models.Budget{}, budget.ID)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected > 0 {
			c.add(notify.ResourceBudget, notify.OperationDeleted, budget.ID, budget.ID, 0)
		}

		return nil
	})
}
