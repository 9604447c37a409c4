package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/budget-tracker/backend/internal/controllers/v1"
	"github.com/budget-tracker/backend/internal/types"
	"github.com/budget-tracker/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestGet() {
	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var lr v1.Response
	test.DecodeResponse(suite.T(), &r, &lr)
	suite.Assert().Equal(v1.Links{
		Budgets:    "http://example.com/v1/budgets",
		Categories: "http://example.com/v1/categories",
		Expenses:   "http://example.com/v1/expenses",
	}, lr.Links)
}

func (suite *TestSuiteStandard) TestHealthzClosedDB() {
	suite.CloseDB()

	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/healthz", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}

func (suite *TestSuiteStandard) TestOptions() {
	budget := suite.createTestBudget("Trip", 500)
	category := budget.Categories[0]
	expense := suite.createTestExpense(category, 12, types.NewDate(2024, 5, 12))

	tests := []struct {
		path   string
		status int
		allow  string
	}{
		{"http://example.com/v1", http.StatusNoContent, "OPTIONS, GET"},
		{"http://example.com/v1/budgets", http.StatusNoContent, "OPTIONS, GET, POST"},
		{"http://example.com/v1/budgets/stream", http.StatusNoContent, "OPTIONS, GET"},
		{budget.Links.Self, http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{budget.Links.Stream, http.StatusNoContent, "OPTIONS, GET"},
		{budget.Links.Export, http.StatusNoContent, "OPTIONS, GET"},
		{"http://example.com/v1/budgets/999", http.StatusNotFound, ""},
		{"http://example.com/v1/budgets/Trip", http.StatusBadRequest, ""},
		{"http://example.com/v1/categories", http.StatusNoContent, "OPTIONS, GET, POST"},
		{category.Links.Self, http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{"http://example.com/v1/categories/999", http.StatusNotFound, ""},
		{"http://example.com/v1/expenses", http.StatusNoContent, "OPTIONS, GET, POST, DELETE"},
		{"http://example.com/v1/expenses/stream", http.StatusNoContent, "OPTIONS, GET"},
		{expense.Links.Self, http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{"http://example.com/v1/expenses/999", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.path, func(t *testing.T) {
			r := test.Request(suite.controller, t, http.MethodOptions, tt.path, "")
			test.AssertHTTPStatus(t, &r, tt.status)
			assert.Equal(t, tt.allow, r.Header().Get("allow"))
		})
	}
}
