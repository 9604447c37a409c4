package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/budget-tracker/backend/internal/controllers/v1"
	"github.com/budget-tracker/backend/internal/types"
	"github.com/budget-tracker/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCategoriesCreate() {
	budget := suite.createTestBudget("Trip", 500)

	r := test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/categories", []v1.CategoryEditable{
		{BudgetID: budget.ID, Name: "Museums", Allocation: decimal.NewFromFloat(40)},
		{BudgetID: 999, Name: "Nowhere", Allocation: decimal.NewFromFloat(10)},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	var response v1.CategoryCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)
	suite.Require().NotNil(response.Data[0].Data)
	suite.Assert().Equal("Museums", response.Data[0].Data.Name)
	suite.assertDecimal(0, response.Data[0].Data.TotalExpense, "new categories have no expenses")
	suite.Assert().NotNil(response.Data[1].Error)

	suite.assertTotals(budget.ID, 540, 0)
}

func (suite *TestSuiteStandard) TestCategoriesCreateErrors() {
	budget := suite.createTestBudget("Trip", 500)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Empty body", "", http.StatusBadRequest},
		{"Broken JSON", `[{ "name": 2 }]`, http.StatusBadRequest},
		{"Empty name", []v1.CategoryEditable{{BudgetID: budget.ID}}, http.StatusBadRequest},
		{"No budget", []v1.CategoryEditable{{Name: "Food"}}, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/categories", tt.body)
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
		})
	}

	suite.assertTotals(budget.ID, 500, 0)
}

func (suite *TestSuiteStandard) TestCategoriesGet() {
	budget := suite.createTestBudget("Trip", 100, 200, 300)
	suite.createTestBudget("Home", 50)

	r := test.Request(suite.controller, suite.T(), http.MethodGet, budget.Links.Categories, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 3)
	suite.Assert().Equal("A", response.Data[0].Name)
	suite.Assert().Equal(
		fmt.Sprintf("http://example.com/v1/expenses?budget=%d&category=%d", budget.ID, response.Data[0].ID),
		response.Data[0].Links.Expenses,
	)
}

func (suite *TestSuiteStandard) TestCategoriesGetFilter() {
	budget := suite.createTestBudget("Trip")

	r := test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/categories", []v1.CategoryEditable{
		{BudgetID: budget.ID, Name: "Food"},
		{BudgetID: budget.ID, Name: "Fuel"},
		{BudgetID: budget.ID, Name: "Hotels"},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"No filter", "", 3},
		{"Exact name", "&name=Hotels", 1},
		{"Prefix", "&name=F*", 2},
		{"Suffix", "&name=*els", 1},
		{"No match", "&name=Museums", 0},
		{"Empty name", "&name=", 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.controller, suite.T(), http.MethodGet, budget.Links.Categories+tt.query, "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

			var response v1.CategoryListResponse
			test.DecodeResponse(suite.T(), &r, &response)
			suite.Assert().Len(response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesGetErrors() {
	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"No budget", "http://example.com/v1/categories", http.StatusBadRequest},
		{"Budget not a number", "http://example.com/v1/categories?budget=Trip", http.StatusBadRequest},
		{"Budget not found", "http://example.com/v1/categories?budget=999", http.StatusNotFound},
		{"Category not found", "http://example.com/v1/categories/999", http.StatusNotFound},
		{"Category not an ID", "http://example.com/v1/categories/Food", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.controller, suite.T(), http.MethodGet, tt.url, "")
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesUpdateAllocation() {
	budget := suite.createTestBudget("Trip", 500, 300)
	category := budget.Categories[0]
	suite.createTestExpense(category, 120, types.NewDate(2024, 5, 12))

	r := test.Request(suite.controller, suite.T(), http.MethodPatch, category.Links.Self, map[string]any{
		"allocation": "450",
		"note":       "Restaurants only",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CategoryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("A", response.Data.Name)
	suite.Assert().Equal("Restaurants only", response.Data.Note)
	suite.assertDecimal(450, response.Data.Allocation, "allocation")
	suite.assertDecimal(120, response.Data.TotalExpense, "total expense")
	suite.assertDecimal(330, response.Data.Remaining, "remaining")

	// The difference in allocation is applied to the budget
	suite.assertTotals(budget.ID, 750, 120)
}

func (suite *TestSuiteStandard) TestCategoriesUpdateErrors() {
	budget := suite.createTestBudget("Trip", 500)
	other := suite.createTestBudget("Home", 100)
	category := budget.Categories[0]

	tests := []struct {
		name   string
		url    string
		body   any
		status int
	}{
		{"Empty body", category.Links.Self, "", http.StatusBadRequest},
		{"Broken JSON", category.Links.Self, `{ "allocation": [] }`, http.StatusBadRequest},
		{"Empty name", category.Links.Self, map[string]any{"name": ""}, http.StatusBadRequest},
		{"Budget changed", category.Links.Self, map[string]any{"budgetId": other.ID}, http.StatusBadRequest},
		{"Not found", "http://example.com/v1/categories/999", map[string]any{"name": "Food"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.controller, suite.T(), http.MethodPatch, tt.url, tt.body)
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
		})
	}

	suite.Assert().Equal(budget.ID, suite.getCategory(category.ID).BudgetID)
	suite.assertTotals(budget.ID, 500, 0)
	suite.assertTotals(other.ID, 100, 0)
}

// Sending the current budget ID is not a change.
func (suite *TestSuiteStandard) TestCategoriesUpdateSameBudget() {
	budget := suite.createTestBudget("Trip", 500)
	category := budget.Categories[0]

	r := test.Request(suite.controller, suite.T(), http.MethodPatch, category.Links.Self, map[string]any{"budgetId": budget.ID, "name": "Food"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal("Food", suite.getCategory(category.ID).Name)
}

func (suite *TestSuiteStandard) TestCategoriesDelete() {
	tests := []struct {
		name       string
		query      string
		allocation float64
		expense    float64
	}{
		{"Default reverses amounts", "", 300, 0},
		{"Reverse amounts", "?reverseAmounts=true", 300, 0},
		{"Keep amounts", "?reverseAmounts=false", 800, 120},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			budget := suite.createTestBudget("Trip", 500, 300)
			category := budget.Categories[0]
			suite.createTestExpense(category, 120, types.NewDate(2024, 5, 12))

			r := test.Request(suite.controller, suite.T(), http.MethodDelete, category.Links.Self+tt.query, "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

			r = test.Request(suite.controller, suite.T(), http.MethodGet, category.Links.Self, "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

			suite.assertTotals(budget.ID, tt.allocation, tt.expense)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesDeleteErrors() {
	budget := suite.createTestBudget("Trip", 500)
	category := budget.Categories[0]

	r := test.Request(suite.controller, suite.T(), http.MethodDelete, category.Links.Self+"?reverseAmounts=maybe", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("the reverseAmounts parameter must be true or false", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.controller, suite.T(), http.MethodDelete, "http://example.com/v1/categories/Food", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	// A missing category is already deleted
	r = test.Request(suite.controller, suite.T(), http.MethodDelete, "http://example.com/v1/categories/999", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	suite.assertTotals(budget.ID, 500, 0)
}
