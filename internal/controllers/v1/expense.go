package v1

import (
	"context"
	"net/http"

	"github.com/budget-tracker/backend/internal/httputil"
	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/store"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterExpenseRoutes registers the routes for expenses with
// the RouterGroup that is passed.
func (co Controller) RegisterExpenseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsExpenseList)
		r.GET("", co.GetExpenses)
		r.POST("", co.CreateExpenses)
		r.DELETE("", co.DeleteExpenses)
		r.OPTIONS("/stream", OptionsBudgetStream)
		r.GET("/stream", co.StreamExpenses)
	}

	// Expense with ID
	{
		r.OPTIONS("/:id", co.OptionsExpenseDetail)
		r.GET("/:id", co.GetExpense)
		r.PATCH("/:id", co.UpdateExpense)
		r.DELETE("/:id", co.DeleteExpense)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/v1/expenses [options]
func OptionsExpenseList(c *gin.Context) {
	httputil.OptionsGetPostDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		uint64	true	"ID formatted as string"
// @Router			/v1/expenses/{id} [options]
func (co Controller) OptionsExpenseDetail(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	_, err = co.Store.Expense(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create expenses
// @Description	Creates new expenses. Their amount is added to the spent amount of their category and budget.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		201			{object}	ExpenseCreateResponse
// @Failure		400			{object}	ExpenseCreateResponse
// @Failure		404			{object}	ExpenseCreateResponse
// @Failure		500			{object}	ExpenseCreateResponse
// @Param			expenses	body		[]ExpenseEditable	true	"Expenses"
// @Router			/v1/expenses [post]
func (co Controller) CreateExpenses(c *gin.Context) {
	var expenses []ExpenseEditable

	err := httputil.BindData(c, &expenses)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ExpenseCreateResponse{}

	for _, editable := range expenses {
		expense, err := co.Store.AddExpense(c.Request.Context(), editable.model())
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newExpense(c, expense)
		r.Data = append(r.Data, ExpenseResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List expenses
// @Description	Returns a page of the expenses of a budget, ordered by date
// @Tags			Expenses
// @Produce		json
// @Success		200			{object}	ExpenseListResponse
// @Failure		400			{object}	ExpenseListResponse
// @Failure		500			{object}	ExpenseListResponse
// @Param			budget		query		uint64		true	"By ID of the budget"
// @Param			category	query		[]uint64	false	"By ID of the category, can be repeated"
// @Param			from		query		string		false	"Expenses on or after this date, YYYY-MM-DD"
// @Param			until		query		string		false	"Expenses on or before this date, YYYY-MM-DD"
// @Param			month		query		string		false	"Expenses in this month, YYYY-MM. Cannot be combined with from and until."
// @Param			order		query		string		false	"newest (default) or oldest"
// @Param			note		query		string		false	"By text in the note"
// @Param			separators	query		bool		false	"Insert a date separator before every run of expenses on the same date. The response is an ExpenseSeparatedListResponse then."
// @Param			limit		query		int			false	"Maximum number of expenses to return"
// @Param			after		query		string		false	"Cursor of the page to continue after"
// @Param			before		query		string		false	"Cursor of the page to continue before"
// @Router			/v1/expenses [get]
func (co Controller) GetExpenses(c *gin.Context) {
	var query ExpenseQueryFilter
	err := bindQuery(c, &query)
	if err != nil {
		failWith[ExpenseListResponse](c, err)
		return
	}

	filter, err := query.model()
	if err != nil {
		failWith[ExpenseListResponse](c, err)
		return
	}

	request := co.pageRequest(query.PageQuery)
	page, err := co.Store.Expenses(c.Request.Context(), filter, request)
	if err != nil {
		failWith[ExpenseListResponse](c, err)
		return
	}

	if query.Separators {
		c.JSON(http.StatusOK, ExpenseSeparatedListResponse{
			Data:       newExpenseListItems(c, page.Items),
			Pagination: newPagination(page, request),
		})
		return
	}

	data := make([]ExpenseListEntry, 0, len(page.Items))
	for _, expense := range page.Items {
		data = append(data, newExpenseListEntry(c, expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{
		Data:       data,
		Pagination: newPagination(page, request),
	})
}

// @Summary		Stream expenses
// @Description	Streams a page of the expenses of a budget as server-sent events. A new event is sent whenever the budget changes.
// @Tags			Expenses
// @Produce		text/event-stream
// @Success		200			{object}	ExpenseListEvent
// @Failure		400			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			budget		query		uint64		true	"By ID of the budget"
// @Param			category	query		[]uint64	false	"By ID of the category, can be repeated"
// @Param			from		query		string		false	"Expenses on or after this date, YYYY-MM-DD"
// @Param			until		query		string		false	"Expenses on or before this date, YYYY-MM-DD"
// @Param			month		query		string		false	"Expenses in this month, YYYY-MM. Cannot be combined with from and until."
// @Param			order		query		string		false	"newest (default) or oldest"
// @Param			note		query		string		false	"By text in the note"
// @Param			limit		query		int			false	"Maximum number of expenses to return"
// @Param			after		query		string		false	"Cursor of the page to continue after"
// @Param			before		query		string		false	"Cursor of the page to continue before"
// @Router			/v1/expenses/stream [get]
func (co Controller) StreamExpenses(c *gin.Context) {
	var query ExpenseQueryFilter
	err := bindQuery(c, &query)
	if err != nil {
		fail(c, err)
		return
	}

	filter, err := query.model()
	if err != nil {
		fail(c, err)
		return
	}

	request := co.pageRequest(query.PageQuery)

	// Invalid cursors are reported before the stream starts
	_, err = co.Store.Expenses(c.Request.Context(), filter, request)
	if err != nil {
		fail(c, err)
		return
	}

	stream(c, func(ctx context.Context) <-chan store.Snapshot[store.Page[models.ExpenseWithCategory]] {
		return co.Store.ObserveExpenses(ctx, filter, request)
	}, func(page store.Page[models.ExpenseWithCategory]) ExpenseListEvent {
		data := make([]ExpenseListEntry, 0, len(page.Items))
		for _, expense := range page.Items {
			data = append(data, newExpenseListEntry(c, expense))
		}

		return ExpenseListEvent{
			Data:       data,
			Pagination: newPagination(page, request),
		}
	})
}

// @Summary		Get expense
// @Description	Returns a specific expense
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseResponse
// @Failure		400	{object}	ExpenseResponse
// @Failure		404	{object}	ExpenseResponse
// @Failure		500	{object}	ExpenseResponse
// @Param			id	path		uint64	true	"ID formatted as string"
// @Router			/v1/expenses/{id} [get]
func (co Controller) GetExpense(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		failWith[ExpenseResponse](c, err)
		return
	}

	expense, err := co.Store.Expense(c.Request.Context(), id)
	if err != nil {
		failWith[ExpenseResponse](c, err)
		return
	}

	data := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// @Summary		Update expense
// @Description	Update an existing expense. Only values to be updated need to be specified. The expense can be moved to another category of the same budget.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200		{object}	ExpenseResponse
// @Failure		400		{object}	ExpenseResponse
// @Failure		404		{object}	ExpenseResponse
// @Failure		500		{object}	ExpenseResponse
// @Param			id		path		uint64			true	"ID formatted as string"
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/v1/expenses/{id} [patch]
func (co Controller) UpdateExpense(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		failWith[ExpenseResponse](c, err)
		return
	}

	expense, err := co.Store.Expense(c.Request.Context(), id)
	if err != nil {
		failWith[ExpenseResponse](c, err)
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		failWith[ExpenseResponse](c, err)
		return
	}

	var data ExpenseEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		failWith[ExpenseResponse](c, err)
		return
	}

	if slices.Contains(updateFields, "BudgetID") {
		expense.BudgetID = data.BudgetID
	}

	if slices.Contains(updateFields, "CategoryID") {
		expense.CategoryID = data.CategoryID
	}

	if slices.Contains(updateFields, "Amount") {
		expense.Amount = data.Amount
	}

	if slices.Contains(updateFields, "Date") {
		expense.Date = data.Date
	}

	if slices.Contains(updateFields, "Note") {
		expense.Note = data.Note
	}

	expense, err = co.Store.EditExpense(c.Request.Context(), expense)
	if err != nil {
		failWith[ExpenseResponse](c, err)
		return
	}

	apiResource := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &apiResource})
}

// @Summary		Delete expense
// @Description	Deletes an expense. Deleting an expense that does not exist succeeds.
// @Tags			Expenses
// @Success		204
// @Failure		400				{object}	httpError
// @Failure		500				{object}	httpError
// @Param			id				path		uint64	true	"ID formatted as string"
// @Param			reverseAmounts	query		bool	false	"Subtract the amount from the category and budget. Defaults to true."
// @Router			/v1/expenses/{id} [delete]
func (co Controller) DeleteExpense(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	reverse, err := reverseAmounts(c)
	if err != nil {
		fail(c, err)
		return
	}

	err = co.Store.RemoveExpense(c.Request.Context(), models.Expense{DefaultModel: models.DefaultModel{ID: id}}, reverse)
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Delete expenses
// @Description	Deletes multiple expenses at once. Either all expenses are deleted or none.
// @Tags			Expenses
// @Accept			json
// @Success		204
// @Failure		400				{object}	httpError
// @Failure		500				{object}	httpError
// @Param			ids				body		[]uint64	true	"IDs of the expenses"
// @Param			reverseAmounts	query		bool		false	"Subtract the amounts from the categories and budgets. Defaults to true."
// @Router			/v1/expenses [delete]
func (co Controller) DeleteExpenses(c *gin.Context) {
	var ids []uint64
	err := httputil.BindData(c, &ids)
	if err != nil {
		fail(c, err)
		return
	}

	if len(ids) == 0 {
		fail(c, errNoExpenseIDs)
		return
	}

	reverse, err := reverseAmounts(c)
	if err != nil {
		fail(c, err)
		return
	}

	expenses := make([]models.Expense, 0, len(ids))
	for _, id := range ids {
		expenses = append(expenses, models.Expense{DefaultModel: models.DefaultModel{ID: id}})
	}

	err = co.Store.RemoveExpenses(c.Request.Context(), expenses, reverse)
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
