package store

import (
	"context"
	"database/sql"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/notify"
	"gorm.io/gorm"
)

// Snapshot is the result of a query at one point in time.
type Snapshot[T any] struct {
	Value T
	Err   error
}

// BudgetState is a budget together with its categories.
type BudgetState struct {
	Budget     models.Budget     `json:"budget"`
	Categories []models.Category `json:"categories"`
}

// observe runs the query once and again after every committed change that
// matches. The channel is closed when ctx is done.
//
// Changes that happen while a snapshot has not been received yet are
// collapsed into a single new query.
func observe[T any](ctx context.Context, s *Store, match func(notify.Event) bool, query func(context.Context) (T, error)) <-chan Snapshot[T] {
	// Subscribe before the first query so that no change is missed
	signal := s.broker.Subscribe(ctx, match)
	out := make(chan Snapshot[T])

	go func() {
		defer close(out)

		for {
			value, err := query(ctx)
			if ctx.Err() != nil {
				return
			}

			select {
			case out <- Snapshot[T]{Value: value, Err: err}:
			case <-ctx.Done():
				return
			}

			if _, ok := <-signal; !ok {
				return
			}
		}
	}()

	return out
}

// ObserveBudget delivers the budget and its categories, and a new state after
// every change to either of them. A missing budget is delivered as a
// not found error.
func (s *Store) ObserveBudget(ctx context.Context, id uint64) <-chan Snapshot[BudgetState] {
	return observe(ctx, s, notify.ForBudget(id), func(ctx context.Context) (BudgetState, error) {
		return s.budgetState(ctx, id)
	})
}

// budgetState reads a budget and its categories from the same snapshot, so
// that the totals of the budget always match the categories.
func (s *Store) budgetState(ctx context.Context, id uint64) (BudgetState, error) {
	// SQLite transactions always are serializable
	var opts []*sql.TxOptions
	if s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}

	var state BudgetState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := first(tx, &state.Budget, "budget", id)
		if err != nil {
			return err
		}

		state.Categories = make([]models.Category, 0)
		return tx.Where("budget_id = ?", id).Order("id ASC").Find(&state.Categories).Error
	}, opts...)
	if err != nil {
		return BudgetState{}, err
	}

	return state, nil
}

// ObserveBudgets delivers a page of budget summaries, refreshed on every change.
func (s *Store) ObserveBudgets(ctx context.Context, page PageRequest) <-chan Snapshot[Page[models.BudgetSummary]] {
	// Every change can alter the totals of a budget
	return observe(ctx, s, nil, func(ctx context.Context) (Page[models.BudgetSummary], error) {
		return s.Budgets(ctx, page)
	})
}

// ObserveCategories delivers the categories of a budget, refreshed when the
// budget, its categories or their expenses change.
func (s *Store) ObserveCategories(ctx context.Context, budgetID uint64) <-chan Snapshot[[]models.Category] {
	return observe(ctx, s, notify.ForBudget(budgetID), func(ctx context.Context) ([]models.Category, error) {
		return s.Categories(ctx, budgetID)
	})
}

// ObserveExpenses delivers a page of expenses, refreshed on changes to the
// filtered budget.
func (s *Store) ObserveExpenses(ctx context.Context, filter ExpenseFilter, page PageRequest) <-chan Snapshot[Page[models.ExpenseWithCategory]] {
	return observe(ctx, s, notify.ForBudget(filter.BudgetID), func(ctx context.Context) (Page[models.ExpenseWithCategory], error) {
		return s.Expenses(ctx, filter, page)
	})
}
