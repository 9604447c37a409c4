package v1

import (
	"context"
	"net/http"

	"github.com/budget-tracker/backend/internal/httputil"
	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/store"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// stream sends every snapshot as server-sent event until the client goes away.
//
// Snapshots are sent as "snapshot" events. A failed query is sent as "error"
// event and ends the stream.
func stream[T, R any](c *gin.Context, observe func(context.Context) <-chan store.Snapshot[T], render func(T) R) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	log.Debug().Str("request-id", requestid.Get(c)).Str("path", c.Request.URL.Path).Msg("stream opened")

	for snapshot := range observe(ctx) {
		if snapshot.Err != nil {
			c.SSEvent("error", httpError{Error: snapshot.Err.Error()})
			c.Writer.Flush()
			return
		}

		c.SSEvent("snapshot", render(snapshot.Value))
		c.Writer.Flush()
	}

	log.Debug().Str("request-id", requestid.Get(c)).Str("path", c.Request.URL.Path).Msg("stream closed")
}

// @Summary		Stream budget
// @Description	Streams the budget with its categories as server-sent events. A new event is sent whenever the budget, its categories or their expenses change.
// @Tags			Budgets
// @Produce		text/event-stream
// @Success		200	{object}	BudgetState
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		uint64	true	"ID formatted as string"
// @Router			/v1/budgets/{id}/stream [get]
func (co Controller) StreamBudget(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	// Report a missing budget with a status code instead of an event
	_, err = co.Store.Budget(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	stream(c, func(ctx context.Context) <-chan store.Snapshot[store.BudgetState] {
		return co.Store.ObserveBudget(ctx, id)
	}, func(state store.BudgetState) BudgetState {
		categories := make([]Category, 0, len(state.Categories))
		for _, category := range state.Categories {
			categories = append(categories, newCategory(c, category))
		}

		return BudgetState{
			Budget:     newBudget(c, state.Budget),
			Categories: categories,
		}
	})
}

// @Summary		Stream budgets
// @Description	Streams a page of budgets as server-sent events. A new event is sent whenever any budget changes.
// @Tags			Budgets
// @Produce		text/event-stream
// @Success		200		{object}	BudgetListEvent
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			limit	query		int		false	"Maximum number of budgets to return"
// @Param			after	query		string	false	"Cursor of the page to continue after"
// @Param			before	query		string	false	"Cursor of the page to continue before"
// @Router			/v1/budgets/stream [get]
func (co Controller) StreamBudgets(c *gin.Context) {
	var query PageQuery
	err := bindQuery(c, &query)
	if err != nil {
		fail(c, err)
		return
	}

	request := co.pageRequest(query)

	// Invalid cursors are reported before the stream starts
	_, err = co.Store.Budgets(c.Request.Context(), request)
	if err != nil {
		fail(c, err)
		return
	}

	stream(c, func(ctx context.Context) <-chan store.Snapshot[store.Page[models.BudgetSummary]] {
		return co.Store.ObserveBudgets(ctx, request)
	}, func(page store.Page[models.BudgetSummary]) BudgetListEvent {
		data := make([]BudgetSummary, 0, len(page.Items))
		for _, budget := range page.Items {
			data = append(data, newBudgetSummary(c, budget))
		}

		return BudgetListEvent{
			Data:       data,
			Pagination: newPagination(page, request),
		}
	})
}
