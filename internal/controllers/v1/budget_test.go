package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/budget-tracker/backend/internal/controllers/v1"
	"github.com/budget-tracker/backend/internal/types"
	"github.com/budget-tracker/backend/test"
)

func (suite *TestSuiteStandard) TestBudgetsCreate() {
	budget := suite.createTestBudget("Trip to Lisbon", 500, 300)

	suite.Assert().Equal("Trip to Lisbon", budget.Name)
	suite.assertDecimal(800, budget.TotalAllocation, "total allocation")
	suite.assertDecimal(0, budget.TotalExpense, "total expense")
	suite.assertDecimal(800, budget.Remaining, "remaining")
	suite.Require().Len(budget.Categories, 2)
	suite.Assert().Equal(budget.ID, budget.Categories[0].BudgetID)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/budgets/%d", budget.ID), budget.Links.Self)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/categories?budget=%d", budget.ID), budget.Links.Categories)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/budgets/%d/export", budget.ID), budget.Links.Export)
}

func (suite *TestSuiteStandard) TestBudgetsCreateErrors() {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Empty body", "", http.StatusBadRequest},
		{"Broken JSON", `[{ "name": 2 }`, http.StatusBadRequest},
		{"Not an array", v1.BudgetCreate{Name: "Trip"}, http.StatusBadRequest},
		{"Empty name", []v1.BudgetCreate{{Name: "Trip"}, {Name: "  "}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/budgets", tt.body)
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
		})
	}
}

// Each budget in a create request is created on its own.
func (suite *TestSuiteStandard) TestBudgetsCreatePartialFailure() {
	r := test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/budgets", []v1.BudgetCreate{{Name: "Trip"}, {Name: ""}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.BudgetCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().NotNil(response.Data[0].Data)
	suite.Require().NotNil(response.Data[1].Error)
	suite.Assert().Contains(*response.Data[1].Error, "name")

	r = test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/budgets", "")
	var list v1.BudgetListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Len(list.Data, 1)
}

func (suite *TestSuiteStandard) TestBudgetsGetPagination() {
	for _, name := range []string{"One", "Two", "Three"} {
		suite.createTestBudget(name, 10)
	}

	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/budgets?limit=2", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var first v1.BudgetListResponse
	test.DecodeResponse(suite.T(), &r, &first)
	suite.Require().Len(first.Data, 2)
	suite.Assert().Equal("One", first.Data[0].Name)
	suite.Assert().Equal("Two", first.Data[1].Name)
	suite.Require().NotNil(first.Pagination)
	suite.Assert().Equal(2, first.Pagination.Count)
	suite.Assert().Equal(2, first.Pagination.Limit)
	suite.Assert().Empty(first.Pagination.Previous)
	suite.Require().NotEmpty(first.Pagination.Next)

	r = test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/budgets?limit=2&after="+first.Pagination.Next, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var second v1.BudgetListResponse
	test.DecodeResponse(suite.T(), &r, &second)
	suite.Require().Len(second.Data, 1)
	suite.Assert().Equal("Three", second.Data[0].Name)
	suite.Assert().Empty(second.Pagination.Next)
	suite.Assert().NotEmpty(second.Pagination.Previous)
}

func (suite *TestSuiteStandard) TestBudgetsGetSummaryTotals() {
	budget := suite.createTestBudget("Trip", 500, 300)
	suite.createTestExpense(budget.Categories[0], 120.5, types.NewDate(2024, 5, 12))

	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/budgets", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 1)
	suite.assertDecimal(800, response.Data[0].TotalAllocation, "total allocation")
	suite.assertDecimal(120.5, response.Data[0].TotalExpense, "total expense")
	suite.assertDecimal(679.5, response.Data[0].Remaining, "remaining")
}

func (suite *TestSuiteStandard) TestBudgetsGetErrors() {
	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"Invalid cursor", "http://example.com/v1/budgets?after=not-a-cursor", http.StatusBadRequest},
		{"Invalid limit", "http://example.com/v1/budgets?limit=many", http.StatusBadRequest},
		{"Invalid stream cursor", "http://example.com/v1/budgets/stream?before=not-a-cursor", http.StatusBadRequest},
		{"Not found", "http://example.com/v1/budgets/999", http.StatusNotFound},
		{"ID zero", "http://example.com/v1/budgets/0", http.StatusBadRequest},
		{"Not an ID", "http://example.com/v1/budgets/Trip", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.controller, suite.T(), http.MethodGet, tt.url, "")
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetsUpdate() {
	budget := suite.createTestBudget("Trip", 500)

	r := test.Request(suite.controller, suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"details":         "Two weeks in May",
		"totalAllocation": "10000",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Trip", response.Data.Name, "the name must not change when it is not sent")
	suite.Assert().Equal("Two weeks in May", response.Data.Details)
	suite.assertDecimal(500, response.Data.TotalAllocation, "totals cannot be set")

	r = test.Request(suite.controller, suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{"name": "Lisbon"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal("Lisbon", suite.getBudget(budget.ID).Name)
}

func (suite *TestSuiteStandard) TestBudgetsUpdateErrors() {
	budget := suite.createTestBudget("Trip", 500)

	tests := []struct {
		name   string
		url    string
		body   any
		status int
	}{
		{"Empty body", budget.Links.Self, "", http.StatusBadRequest},
		{"Broken JSON", budget.Links.Self, `{ "name": 2 }`, http.StatusBadRequest},
		{"Empty name", budget.Links.Self, map[string]any{"name": ""}, http.StatusBadRequest},
		{"Not found", "http://example.com/v1/budgets/999", map[string]any{"name": "Home"}, http.StatusNotFound},
		{"Not an ID", "http://example.com/v1/budgets/-1", map[string]any{"name": "Home"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.controller, suite.T(), http.MethodPatch, tt.url, tt.body)
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetsDelete() {
	budget := suite.createTestBudget("Trip", 500)
	category := budget.Categories[0]
	expense := suite.createTestExpense(category, 20, types.NewDate(2024, 5, 12))

	r := test.Request(suite.controller, suite.T(), http.MethodDelete, budget.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// Categories and expenses are removed with the budget
	for _, url := range []string{budget.Links.Self, category.Links.Self, expense.Links.Self} {
		r = test.Request(suite.controller, suite.T(), http.MethodGet, url, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	}

	// Deleting again is not an error
	r = test.Request(suite.controller, suite.T(), http.MethodDelete, budget.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.controller, suite.T(), http.MethodDelete, "http://example.com/v1/budgets/Trip", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestBudgetsDatabaseError() {
	budget := suite.createTestBudget("Trip", 500)
	suite.CloseDB()

	r := test.Request(suite.controller, suite.T(), http.MethodGet, budget.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Error)
	suite.Assert().Contains(*response.Error, "an error occurred on the server")

	r = test.Request(suite.controller, suite.T(), http.MethodDelete, budget.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}
