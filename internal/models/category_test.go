package models_test

import (
	"github.com/budget-tracker/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) createTestBudget() models.Budget {
	budget := models.Budget{Name: "Trip"}
	suite.Require().Nil(suite.db.Create(&budget).Error)
	return budget
}

func (suite *TestSuiteStandard) TestCategoryTrimWhitespace() {
	budget := suite.createTestBudget()
	category := models.Category{BudgetID: budget.ID, Name: " Food ", Note: " Restaurants  "}

	suite.Require().Nil(suite.db.Create(&category).Error)
	suite.Assert().Equal("Food", category.Name)
	suite.Assert().Equal("Restaurants", category.Note)
}

func (suite *TestSuiteStandard) TestCategoryNameEmpty() {
	budget := suite.createTestBudget()

	err := suite.db.Create(&models.Category{BudgetID: budget.ID, Name: " "}).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryNameEmpty)
}

func (suite *TestSuiteStandard) TestCategoryRemaining() {
	category := models.Category{
		Allocation:   decimal.NewFromFloat(500),
		TotalExpense: decimal.NewFromFloat(620),
	}

	// Overspending results in a negative remainder
	suite.Assert().True(decimal.NewFromFloat(-120).Equal(category.Remaining()), category.Remaining().String())
}

func (suite *TestSuiteStandard) TestCategoryBudgetMissing() {
	err := suite.db.Create(&models.Category{BudgetID: 999, Name: "Food"}).Error
	suite.Assert().ErrorIs(err, models.ErrReferenceInvalid)
}
