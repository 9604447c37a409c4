package v1

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/budget-tracker/backend/internal/export"
	"github.com/budget-tracker/backend/internal/httputil"
	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/store"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// locale returns the preferred language of the client, English if it has none.
func locale(c *gin.Context) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return language.English
	}

	return tags[0]
}

// @Summary		Export budget
// @Description	Exports the budget with its categories and all expenses as XLSX workbook. Amounts are formatted for the language in the Accept-Language header.
// @Tags			Budgets
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		uint64	true	"ID formatted as string"
// @Router			/v1/budgets/{id}/export [get]
func (co Controller) ExportBudget(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	ctx := c.Request.Context()

	budget, err := co.Store.Budget(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}

	categories, err := co.Store.Categories(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}

	report := export.Report{
		Budget:     budget,
		Categories: categories,
	}

	request := store.PageRequest{Limit: store.MaxPageSize}
	for {
		page, err := co.Store.Expenses(ctx, store.ExpenseFilter{BudgetID: id}, request)
		if err != nil {
			fail(c, err)
			return
		}

		report.Expenses = append(report.Expenses, page.Items...)
		if page.Next == "" {
			break
		}
		request.After = page.Next
	}

	// Render to a buffer first so that errors can still be reported with a status code
	var b bytes.Buffer
	err = export.Budget(&b, report, locale(c))
	if err != nil {
		fail(c, fmt.Errorf("%w: %w", models.ErrGeneral, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"budget-%d.xlsx\"", id))
	c.Data(http.StatusOK, export.ContentType, b.Bytes())
}
