package v1

import (
	"net/http"

	"github.com/budget-tracker/backend/internal/httputil"
	"github.com/budget-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetList)
		r.GET("", co.GetBudgets)
		r.POST("", co.CreateBudgets)
		r.OPTIONS("/stream", OptionsBudgetStream)
		r.GET("/stream", co.StreamBudgets)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", co.OptionsBudgetDetail)
		r.GET("/:id", co.GetBudget)
		r.PATCH("/:id", co.UpdateBudget)
		r.DELETE("/:id", co.DeleteBudget)
		r.OPTIONS("/:id/stream", OptionsBudgetStream)
		r.GET("/:id/stream", co.StreamBudget)
		r.OPTIONS("/:id/export", OptionsBudgetStream)
		r.GET("/:id/export", co.ExportBudget)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets/stream [options]
// @Router			/v1/budgets/{id}/stream [options]
// @Router			/v1/budgets/{id}/export [options]
func OptionsBudgetStream(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		uint64	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [options]
func (co Controller) OptionsBudgetDetail(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	_, err = co.Store.Budget(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create budgets
// @Description	Creates new budgets together with their categories. Each budget is created on its own.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		201		{object}	BudgetCreateResponse
// @Failure		400		{object}	BudgetCreateResponse
// @Failure		404		{object}	BudgetCreateResponse
// @Failure		500		{object}	BudgetCreateResponse
// @Param			budgets	body		[]BudgetCreate	true	"Budgets"
// @Router			/v1/budgets [post]
func (co Controller) CreateBudgets(c *gin.Context) {
	var budgets []BudgetCreate

	err := httputil.BindData(c, &budgets)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BudgetCreateResponse{}

	for _, create := range budgets {
		budget, err := co.Store.CreateBudget(c.Request.Context(), create.model())
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newBudget(c, budget)
		r.Data = append(r.Data, BudgetResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List budgets
// @Description	Returns a page of budgets in the order they were created
// @Tags			Budgets
// @Produce		json
// @Success		200		{object}	BudgetListResponse
// @Failure		400		{object}	BudgetListResponse
// @Failure		500		{object}	BudgetListResponse
// @Param			limit	query		int		false	"Maximum number of budgets to return"
// @Param			after	query		string	false	"Cursor of the page to continue after"
// @Param			before	query		string	false	"Cursor of the page to continue before"
// @Router			/v1/budgets [get]
func (co Controller) GetBudgets(c *gin.Context) {
	var query PageQuery
	err := bindQuery(c, &query)
	if err != nil {
		failWith[BudgetListResponse](c, err)
		return
	}

	request := co.pageRequest(query)
	page, err := co.Store.Budgets(c.Request.Context(), request)
	if err != nil {
		failWith[BudgetListResponse](c, err)
		return
	}

	data := make([]BudgetSummary, 0, len(page.Items))
	for _, budget := range page.Items {
		data = append(data, newBudgetSummary(c, budget))
	}

	c.JSON(http.StatusOK, BudgetListResponse{
		Data:       data,
		Pagination: newPagination(page, request),
	})
}

// @Summary		Get budget
// @Description	Returns a specific budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	BudgetResponse
// @Failure		404	{object}	BudgetResponse
// @Failure		500	{object}	BudgetResponse
// @Param			id	path		uint64	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [get]
func (co Controller) GetBudget(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		failWith[BudgetResponse](c, err)
		return
	}

	budget, err := co.Store.Budget(c.Request.Context(), id)
	if err != nil {
		failWith[BudgetResponse](c, err)
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Update budget
// @Description	Update an existing budget. Only values to be updated need to be specified. The totals cannot be set.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		404		{object}	BudgetResponse
// @Failure		500		{object}	BudgetResponse
// @Param			id		path		uint64			true	"ID formatted as string"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func (co Controller) UpdateBudget(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		failWith[BudgetResponse](c, err)
		return
	}

	budget, err := co.Store.Budget(c.Request.Context(), id)
	if err != nil {
		failWith[BudgetResponse](c, err)
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		failWith[BudgetResponse](c, err)
		return
	}

	var data BudgetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		failWith[BudgetResponse](c, err)
		return
	}

	if slices.Contains(updateFields, "Name") {
		budget.Name = data.Name
	}

	if slices.Contains(updateFields, "Details") {
		budget.Details = data.Details
	}

	budget, err = co.Store.EditBudget(c.Request.Context(), budget)
	if err != nil {
		failWith[BudgetResponse](c, err)
		return
	}

	apiResource := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &apiResource})
}

// @Summary		Delete budget
// @Description	Deletes a budget with all its categories and expenses. Deleting a budget that does not exist succeeds.
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		uint64	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [delete]
func (co Controller) DeleteBudget(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	err = co.Store.RemoveBudget(c.Request.Context(), models.Budget{DefaultModel: models.DefaultModel{ID: id}})
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
