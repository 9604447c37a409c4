package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/notify"
	"github.com/budget-tracker/backend/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrExpenseBudgetChanged = errors.New("the budget of an expense cannot be changed")

// likeEscaper escapes the wildcards of LIKE patterns, the escape character is
// a backslash.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ExpenseFilter restricts an expense listing. BudgetID is required, all other
// fields are optional. From and Until are inclusive.
type ExpenseFilter struct {
	BudgetID    uint64
	CategoryIDs []uint64
	From        types.Date
	Until       types.Date
	Note        string
	NewestFirst bool
}

// categoryOfBudget loads a category for update and verifies that it belongs
// to the budget.
func categoryOfBudget(tx *gorm.DB, category *models.Category, id, budgetID uint64) error {
	err := lock(tx, category, "category", id)
	if err != nil {
		return err
	}

	if category.BudgetID != budgetID {
		return fmt.Errorf("%w category with id %d in budget with id %d", models.ErrResourceNotFound, id, budgetID)
	}

	return nil
}

// AddExpense adds an expense to a category of a budget. The amount is added
// to the total expense of both.
func (s *Store) AddExpense(ctx context.Context, expense models.Expense) (models.Expense, error) {
	expense.ID = 0

	err := s.transaction(ctx, "add_expense", func(tx *gorm.DB, c *changes) error {
		var budget models.Budget
		err := lock(tx, &budget, "budget", expense.BudgetID)
		if err != nil {
			return err
		}

		var category models.Category
		err = categoryOfBudget(tx, &category, expense.CategoryID, budget.ID)
		if err != nil {
			return err
		}

		err = tx.Omit(clause.Associations).Create(&expense).Error
		if err != nil {
			return err
		}
		c.add(notify.ResourceExpense, notify.OperationCreated, expense.ID, budget.ID, category.ID)

		category.TotalExpense = category.TotalExpense.Add(expense.Amount)
		err = saveCategoryTotal(tx, category)
		if err != nil {
			return err
		}
		c.add(notify.ResourceCategory, notify.OperationUpdated, category.ID, budget.ID, category.ID)

		budget.TotalExpense = budget.TotalExpense.Add(expense.Amount)
		err = saveBudgetTotals(tx, budget)
		if err != nil {
			return err
		}
		c.add(notify.ResourceBudget, notify.OperationUpdated, budget.ID, budget.ID, 0)

		return nil
	})
	if err != nil {
		return models.Expense{}, err
	}

	return expense, nil
}

// Expense returns the expense with the id.
func (s *Store) Expense(ctx context.Context, id uint64) (models.Expense, error) {
	var expense models.Expense
	err := first(s.db.WithContext(ctx), &expense, "expense", id)
	return expense, err
}

// Expenses returns one page of the expenses matching the filter, ordered by
// date and creation.
func (s *Store) Expenses(ctx context.Context, filter ExpenseFilter, page PageRequest) (Page[models.ExpenseWithCategory], error) {
	limit := page.limit()

	q := s.db.WithContext(ctx).
		Table("expenses").
		Select("expenses.id, expenses.budget_id, expenses.category_id, categories.name AS category_name, expenses.amount, expenses.date, expenses.note").
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.budget_id = ?", filter.BudgetID)

	if len(filter.CategoryIDs) > 0 {
		q = q.Where("expenses.category_id IN ?", filter.CategoryIDs)
	}

	if !filter.From.IsZero() {
		q = q.Where("expenses.date >= ?", filter.From)
	}

	if !filter.Until.IsZero() {
		q = q.Where("expenses.date <= ?", filter.Until)
	}

	if filter.Note != "" {
		q = q.Where(`expenses.note LIKE ? ESCAPE '\'`, fmt.Sprintf("%%%s%%", likeEscaper.Replace(filter.Note)))
	}

	// descending is the direction of the query, not of the listing
	descending := filter.NewestFirst
	backward := page.Before != ""

	var cursor string
	if backward {
		cursor = page.Before
		descending = !descending
	} else {
		cursor = page.After
	}

	if cursor != "" {
		key, err := parseExpenseCursor(cursor)
		if err != nil {
			return Page[models.ExpenseWithCategory]{}, err
		}

		op := ">"
		if descending {
			op = "<"
		}

		q = q.Where(fmt.Sprintf("(expenses.date %s ? OR (expenses.date = ? AND expenses.id %s ?))", op, op), key.date, key.date, key.id)
	}

	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: "expenses", Name: "date"}, Desc: descending},
		{Column: clause.Column{Table: "expenses", Name: "id"}, Desc: descending},
	}})

	var expenses []models.ExpenseWithCategory
	err := q.Limit(limit + 1).Scan(&expenses).Error
	if err != nil {
		return Page[models.ExpenseWithCategory]{}, err
	}

	return paginate(expenses, limit, backward, page.After != "", func(e models.ExpenseWithCategory) string {
		return expenseKey{date: e.Date, id: e.ID}.cursor()
	}), nil
}

// EditExpense updates category, amount, date and note of an expense.
//
// The difference between the new and the old amount is applied to the
// category and the budget. When the expense moves to another category of the
// same budget, the old amount is subtracted from the old category and the new
// amount added to the new one.
func (s *Store) EditExpense(ctx context.Context, expense models.Expense) (models.Expense, error) {
	var stored models.Expense

	err := s.transaction(ctx, "edit_expense", func(tx *gorm.DB, c *changes) error {
		var budget models.Budget
		err := lockExpense(tx, &budget, &stored, expense.ID)
		if err != nil {
			return err
		}

		if expense.BudgetID != 0 && expense.BudgetID != stored.BudgetID {
			return ErrExpenseBudgetChanged
		}

		var oldCategory models.Category
		err = categoryOfBudget(tx, &oldCategory, stored.CategoryID, budget.ID)
		if err != nil {
			return err
		}

		newCategoryID := expense.CategoryID
		if newCategoryID == 0 {
			newCategoryID = stored.CategoryID
		}

		oldAmount := stored.Amount
		stored.CategoryID = newCategoryID
		stored.Amount = expense.Amount
		stored.Date = expense.Date
		stored.Note = expense.Note

		if newCategoryID == oldCategory.ID {
			oldCategory.TotalExpense = oldCategory.TotalExpense.Add(stored.Amount.Sub(oldAmount))
			err = saveCategoryTotal(tx, oldCategory)
			if err != nil {
				return err
			}
			c.add(notify.ResourceCategory, notify.OperationUpdated, oldCategory.ID, budget.ID, oldCategory.ID)
		} else {
			var newCategory models.Category
			err = categoryOfBudget(tx, &newCategory, newCategoryID, budget.ID)
			if err != nil {
				return err
			}

			oldCategory.TotalExpense = oldCategory.TotalExpense.Sub(oldAmount)
			err = saveCategoryTotal(tx, oldCategory)
			if err != nil {
				return err
			}
			c.add(notify.ResourceCategory, notify.OperationUpdated, oldCategory.ID, budget.ID, oldCategory.ID)

			newCategory.TotalExpense = newCategory.TotalExpense.Add(stored.Amount)
			err = saveCategoryTotal(tx, newCategory)
			if err != nil {
				return err
			}
			c.add(notify.ResourceCategory, notify.OperationUpdated, newCategory.ID, budget.ID, newCategory.ID)
		}

		err = tx.Omit(clause.Associations).Save(&stored).Error
		if err != nil {
			return err
		}
		c.add(notify.ResourceExpense, notify.OperationUpdated, stored.ID, budget.ID, stored.CategoryID)

		budget.TotalExpense = budget.TotalExpense.Add(stored.Amount.Sub(oldAmount))
		err = saveBudgetTotals(tx, budget)
		if err != nil {
			return err
		}
		c.add(notify.ResourceBudget, notify.OperationUpdated, budget.ID, budget.ID, 0)

		return nil
	})
	if err != nil {
		return models.Expense{}, err
	}

	return stored, nil
}

// RemoveExpense deletes an expense. With reverseAmounts, its stored amount is
// subtracted from its category and budget.
//
// Removing an expense that does not exist is a no-op.
func (s *Store) RemoveExpense(ctx context.Context, expense models.Expense, reverseAmounts bool) error {
	return s.transaction(ctx, "remove_expense", func(tx *gorm.DB, c *changes) error {
		return removeExpense(tx, c, expense.ID, reverseAmounts)
	})
}

// RemoveExpenses deletes all expenses in one transaction. If any of them
// cannot be removed, none are.
func (s *Store) RemoveExpenses(ctx context.Context, expenses []models.Expense, reverseAmounts bool) error {
	ids := make([]uint64, 0, len(expenses))
	for _, expense := range expenses {
		ids = append(ids, expense.ID)
	}

	return s.transaction(ctx, "remove_expenses", func(tx *gorm.DB, c *changes) error {
		// Removing in budget order keeps the lock order of concurrent bulk
		// removals spanning several budgets the same
		var existing []models.Expense
		err := tx.Select("id", "budget_id").Where("id IN ?", ids).Order("budget_id, id").Find(&existing).Error
		if err != nil {
			return err
		}

		for _, expense := range existing {
			err := removeExpense(tx, c, expense.ID, reverseAmounts)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func removeExpense(tx *gorm.DB, c *changes, id uint64, reverseAmounts bool) error {
	var stored models.Expense
	var budget models.Budget
	err := lockExpense(tx, &budget, &stored, id)
	if isNotFound(err) {
		return nil
	} else if err != nil {
		return err
	}

	var category models.Category
	err = lock(tx, &category, "category", stored.CategoryID)
	if isNotFound(err) {
		return nil
	} else if err != nil {
		return err
	}

	err = tx.Delete(&models.Expense{}, stored.ID).Error
	if err != nil {
		return err
	}
	c.add(notify.ResourceExpense, notify.OperationDeleted, stored.ID, stored.BudgetID, stored.CategoryID)

	if !reverseAmounts {
		log.Warn().Uint64("expense", stored.ID).Uint64("budget", budget.ID).Msg("expense removed without reversing its amount, totals are no longer consistent")
		return nil
	}

	category.TotalExpense = category.TotalExpense.Sub(stored.Amount)
	err = saveCategoryTotal(tx, category)
	if err != nil {
		return err
	}
	c.add(notify.ResourceCategory, notify.OperationUpdated, category.ID, budget.ID, category.ID)

	budget.TotalExpense = budget.TotalExpense.Sub(stored.Amount)
	err = saveBudgetTotals(tx, budget)
	if err != nil {
		return err
	}
	c.add(notify.ResourceBudget, notify.OperationUpdated, budget.ID, budget.ID, 0)

	return nil
}
