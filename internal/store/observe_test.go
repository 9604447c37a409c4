package store_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/store"
	"github.com/budget-tracker/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// next waits for the next snapshot.
func next[T any](suite *TestSuiteStandard, c <-chan store.Snapshot[T]) store.Snapshot[T] {
	select {
	case s, ok := <-c:
		suite.Require().True(ok, "snapshot channel closed")
		return s
	case <-time.After(5 * time.Second):
		suite.Require().FailNow("no snapshot received")
	}

	return store.Snapshot[T]{}
}

func (suite *TestSuiteStandard) TestObserveBudget() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	budget := suite.createTestBudget("Trip", 500, 300)
	snapshots := suite.store.ObserveBudget(ctx, budget.ID)

	initial := next(suite, snapshots)
	suite.Require().Nil(initial.Err)
	suite.Assert().Equal("Trip", initial.Value.Budget.Name)
	suite.Assert().Len(initial.Value.Categories, 2)
	suite.assertDecimal(0, initial.Value.Budget.TotalExpense, "initial total expense")

	suite.createTestExpense(budget.Categories[0], 120, types.NewDate(2024, 5, 12))

	updated := next(suite, snapshots)
	suite.Require().Nil(updated.Err)
	suite.assertDecimal(120, updated.Value.Budget.TotalExpense, "total expense after the expense was added")
	suite.assertDecimal(120, updated.Value.Categories[0].TotalExpense, "category total expense after the expense was added")

	suite.Require().Nil(suite.store.RemoveBudget(context.Background(), budget))

	removed := next(suite, snapshots)
	suite.Assert().ErrorIs(removed.Err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestObserveBudgetNotFound() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshot := next(suite, suite.store.ObserveBudget(ctx, 31))
	suite.Assert().ErrorIs(snapshot.Err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestObserveIgnoresOtherBudgets() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	budget := suite.createTestBudget("Trip", 500)
	other := suite.createTestBudget("Home", 100)

	snapshots := suite.store.ObserveCategories(ctx, budget.ID)
	initial := next(suite, snapshots)
	suite.Require().Len(initial.Value, 1)

	suite.createTestExpense(other.Categories[0], 10, types.NewDate(2024, 5, 12))

	select {
	case <-snapshots:
		suite.Assert().Fail("a change to another budget must not produce a snapshot")
	case <-time.After(100 * time.Millisecond):
	}

	_, err := suite.store.AddCategory(context.Background(), models.Category{BudgetID: budget.ID, Name: "Museums", Allocation: decimal.NewFromFloat(40)})
	suite.Require().Nil(err)

	updated := next(suite, snapshots)
	suite.Assert().Len(updated.Value, 2)
}

func (suite *TestSuiteStandard) TestObserveBudgets() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := suite.store.ObserveBudgets(ctx, store.PageRequest{Limit: 2})
	suite.Assert().Empty(next(suite, snapshots).Value.Items)

	budget := suite.createTestBudget("Trip", 500)
	page := next(suite, snapshots).Value
	suite.Require().Len(page.Items, 1)
	suite.assertDecimal(500, page.Items[0].TotalAllocation, "total allocation")

	// Expenses change the totals of the summaries
	suite.createTestExpense(budget.Categories[0], 15, types.NewDate(2024, 5, 12))
	page = next(suite, snapshots).Value
	suite.assertDecimal(15, page.Items[0].TotalExpense, "total expense")
}

func (suite *TestSuiteStandard) TestObserveExpenses() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	budget := suite.createTestBudget("Trip", 500)
	snapshots := suite.store.ObserveExpenses(ctx, store.ExpenseFilter{BudgetID: budget.ID, NewestFirst: true}, store.PageRequest{})
	suite.Assert().Empty(next(suite, snapshots).Value.Items)

	expense := suite.createTestExpense(budget.Categories[0], 15, types.NewDate(2024, 5, 12))
	page := next(suite, snapshots).Value
	suite.Require().Len(page.Items, 1)
	suite.Assert().Equal(expense.ID, page.Items[0].ID)
}

func (suite *TestSuiteStandard) TestObserveStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())

	budget := suite.createTestBudget("Trip", 500)
	snapshots := suite.store.ObserveBudget(ctx, budget.ID)
	next(suite, snapshots)

	cancel()

	select {
	case _, ok := <-snapshots:
		suite.Assert().False(ok, "the channel must be closed after cancellation")
	case <-time.After(5 * time.Second):
		suite.Assert().Fail("the channel was not closed")
	}

	// Subscriptions are removed asynchronously
	suite.Assert().Eventually(func() bool {
		return suite.broker.Subscribers() == 0
	}, time.Second, 10*time.Millisecond)
}

// A budget snapshot reads the budget and its categories in one transaction.
func (suite *TestSuiteStandard) TestObserveBudgetReadsInOneTransaction() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	budget := suite.createTestBudget("Trip", 500, 300)

	pools := map[string]gorm.ConnPool{}
	err := suite.db.Callback().Query().Before("gorm:query").Register("test:record_pool", func(db *gorm.DB) {
		pools[db.Statement.Table] = db.Statement.ConnPool
	})
	suite.Require().Nil(err)

	snapshot := next(suite, suite.store.ObserveBudget(ctx, budget.ID))
	suite.Require().Nil(snapshot.Err)
	suite.Assert().Len(snapshot.Value.Categories, 2)

	suite.Require().Contains(pools, "budgets")
	suite.Require().Contains(pools, "categories")
	suite.Assert().IsType(&sql.Tx{}, pools["budgets"])
	suite.Assert().Same(pools["budgets"], pools["categories"])
}
