// Package v1 contains the handlers for the v1 API.
package v1

import (
	"net/http"

	"github.com/budget-tracker/backend/internal/httputil"
	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/store"
	"github.com/gin-gonic/gin"
)

// Controller holds everything the handlers need to serve requests.
type Controller struct {
	Store *store.Store

	// PageSize is used for lists when the request does not set a limit
	PageSize int
}

// RegisterRoutes registers the v1 root and all resource routes with
// the RouterGroup that is passed.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", Options)

	co.RegisterBudgetRoutes(r.Group("/budgets"))
	co.RegisterCategoryRoutes(r.Group("/categories"))
	co.RegisterExpenseRoutes(r.Group("/expenses"))
}

// RegisterHealthzRoutes registers the routes for the healthz endpoint.
func (co Controller) RegisterHealthzRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsHealthz)
	r.GET("", co.GetHealthz)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Budgets    string `json:"budgets" example:"https://example.com/api/v1/budgets"`       // URL of Budget collection endpoint
	Categories string `json:"categories" example:"https://example.com/api/v1/categories"` // URL of Category collection endpoint
	Expenses   string `json:"expenses" example:"https://example.com/api/v1/expenses"`     // URL of Expense collection endpoint
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Budgets:    url + "/v1/budgets",
			Categories: url + "/v1/categories",
			Expenses:   url + "/v1/expenses",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func OptionsHealthz(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Returns the application health and, if not healthy, an error
// @Tags			General
// @Produce		json
// @Success		204
// @Failure		500	{object}	httpError
// @Router			/healthz [get]
func (co Controller) GetHealthz(c *gin.Context) {
	err := co.Store.Ping(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// pageRequest builds the store page request from the query parameters.
func (co Controller) pageRequest(p PageQuery) store.PageRequest {
	limit := p.Limit
	if limit <= 0 {
		limit = co.PageSize
	}

	return store.PageRequest{
		After:  p.After,
		Before: p.Before,
		Limit:  limit,
	}
}
