package store_test

import (
	"context"
	"testing"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAddCategory() {
	budget := suite.createTestBudget("Trip", 500)

	category, err := suite.store.AddCategory(context.Background(), models.Category{
		BudgetID:     budget.ID,
		Name:         "Museums",
		Note:         " Tickets ",
		Allocation:   decimal.NewFromFloat(75.25),
		TotalExpense: decimal.NewFromFloat(30),
	})
	suite.Require().Nil(err)

	suite.Assert().NotZero(category.ID)
	suite.Assert().Equal("Tickets", category.Note)
	suite.assertDecimal(0, category.TotalExpense, "a new category has no expenses")

	suite.assertTotals(budget.ID, 575.25, 0)
	suite.assertConsistent(budget.ID)
}

func (suite *TestSuiteStandard) TestAddCategoryErrors() {
	budget := suite.createTestBudget("Trip", 500)

	_, err := suite.store.AddCategory(context.Background(), models.Category{BudgetID: budget.ID + 1, Name: "Food", Allocation: decimal.NewFromFloat(10)})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = suite.store.AddCategory(context.Background(), models.Category{BudgetID: budget.ID, Name: "", Allocation: decimal.NewFromFloat(10)})
	suite.Assert().ErrorIs(err, models.ErrCategoryNameEmpty)

	suite.assertTotals(budget.ID, 500, 0)
	suite.assertConsistent(budget.ID)
}

func (suite *TestSuiteStandard) TestCategories() {
	budget := suite.createTestBudget("Trip", 500, 300, 200)
	other := suite.createTestBudget("Home", 100)

	categories, err := suite.store.Categories(context.Background(), budget.ID)
	suite.Require().Nil(err)
	suite.Require().Len(categories, 3)
	for i, category := range categories {
		suite.Assert().Equal(budget.Categories[i].ID, category.ID, "categories are ordered by creation")
	}

	categories, err = suite.store.Categories(context.Background(), other.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(categories, 1)

	categories, err = suite.store.Categories(context.Background(), other.ID+100)
	suite.Require().Nil(err)
	suite.Assert().NotNil(categories)
	suite.Assert().Len(categories, 0)
}

func (suite *TestSuiteStandard) TestEditCategoryAllocationDiff() {
	tests := []struct {
		name       string
		allocation float64
		expected   float64
	}{
		{"Increase", 650, 950},
		{"Decrease", 120, 420},
		{"Unchanged", 500, 800},
		{"Zero", 0, 300},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			budget := suite.createTestBudget("Trip", 500, 300)
			suite.createTestExpense(budget.Categories[0], 40, types.NewDate(2024, 5, 1))

			edited, err := suite.store.EditCategory(context.Background(), models.Category{
				DefaultModel: models.DefaultModel{ID: budget.Categories[0].ID},
				Name:         "Food",
				Allocation:   decimal.NewFromFloat(tt.allocation),
				TotalExpense: decimal.NewFromFloat(999),
			})
			assert.Nil(t, err)

			assert.Equal(t, "Food", edited.Name)
			assert.True(t, edited.TotalExpense.Equal(decimal.NewFromFloat(40)), "total expense must be kept, is %s", edited.TotalExpense)
			assert.Equal(t, budget.ID, edited.BudgetID)

			suite.assertTotals(budget.ID, tt.expected, 40)
			suite.assertConsistent(budget.ID)
		})
	}
}

func (suite *TestSuiteStandard) TestEditCategoryKeepsBudget() {
	budget := suite.createTestBudget("Trip", 500)
	other := suite.createTestBudget("Home", 100)

	edited, err := suite.store.EditCategory(context.Background(), models.Category{
		DefaultModel: models.DefaultModel{ID: budget.Categories[0].ID},
		BudgetID:     other.ID,
		Name:         "Food",
		Allocation:   decimal.NewFromFloat(500),
	})
	suite.Require().Nil(err)
	suite.Assert().Equal(budget.ID, edited.BudgetID)

	suite.assertConsistent(budget.ID)
	suite.assertConsistent(other.ID)
}

func (suite *TestSuiteStandard) TestEditCategoryErrors() {
	budget := suite.createTestBudget("Trip", 500)

	_, err := suite.store.EditCategory(context.Background(), models.Category{DefaultModel: models.DefaultModel{ID: 9000}, Name: "Food"})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
	suite.Assert().EqualError(err, "there is no category with id 9000")

	_, err = suite.store.EditCategory(context.Background(), models.Category{
		DefaultModel: models.DefaultModel{ID: budget.Categories[0].ID},
		Name:         "  ",
		Allocation:   decimal.NewFromFloat(100),
	})
	suite.Assert().ErrorIs(err, models.ErrCategoryNameEmpty)

	// The failed edit must not have changed the budget
	suite.assertTotals(budget.ID, 500, 0)
}

func (suite *TestSuiteStandard) TestRemoveCategory() {
	budget := suite.createTestBudget("Trip", 500, 300)
	suite.createTestExpense(budget.Categories[0], 120, types.NewDate(2024, 5, 1))
	suite.createTestExpense(budget.Categories[0], 30, types.NewDate(2024, 5, 2))
	suite.createTestExpense(budget.Categories[1], 60, types.NewDate(2024, 5, 2))

	err := suite.store.RemoveCategory(context.Background(), budget.Categories[0], true)
	suite.Require().Nil(err)

	suite.Assert().Equal(int64(0), suite.count(&models.Expense{}, "category_id = ?", budget.Categories[0].ID), "expenses must be deleted with their category")
	suite.assertTotals(budget.ID, 300, 60)
	suite.assertConsistent(budget.ID)

	// Removing it again does not change the totals again
	err = suite.store.RemoveCategory(context.Background(), budget.Categories[0], true)
	suite.Require().Nil(err)
	suite.assertTotals(budget.ID, 300, 60)
}

func (suite *TestSuiteStandard) TestRemoveCategoryUsesStoredValues() {
	budget := suite.createTestBudget("Trip", 500, 300)

	category := budget.Categories[1]
	category.Allocation = decimal.NewFromFloat(1)
	category.TotalExpense = decimal.NewFromFloat(2)

	suite.Require().Nil(suite.store.RemoveCategory(context.Background(), category, true))
	suite.assertTotals(budget.ID, 500, 0)
}

func (suite *TestSuiteStandard) TestRemoveCategoryWithoutReversing() {
	budget := suite.createTestBudget("Trip", 500, 300)
	suite.createTestExpense(budget.Categories[0], 120, types.NewDate(2024, 5, 1))

	err := suite.store.RemoveCategory(context.Background(), budget.Categories[0], false)
	suite.Require().Nil(err)

	suite.Assert().Equal(int64(0), suite.count(&models.Category{}, "id = ?", budget.Categories[0].ID))
	suite.assertTotals(budget.ID, 800, 120)
}
