package v1

import (
	"errors"
	"net/http"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid ID"`
}

// status returns the appropriate status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// logStatus returns the status for err. Server errors are logged with the
// request ID.
func logStatus(c *gin.Context, err error) int {
	s := status(err)
	if s == http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	}

	return s
}

// fail writes the error response for err.
func fail(c *gin.Context, err error) {
	c.JSON(logStatus(c, err), httpError{
		Error: err.Error(),
	})
}

// errorResponse is implemented by the typed responses of the API.
type errorResponse[R any] interface {
	*R
	setError(message string)
}

// failWith writes the error response for err in the shape of the typed
// response R, e.g. an ExpenseResponse with only its error set.
func failWith[R any, P errorResponse[R]](c *gin.Context, err error) {
	var response R
	P(&response).setError(err.Error())

	c.JSON(logStatus(c, err), response)
}

var (
	errBudgetParameter       = errors.New("the budget parameter must be set")
	errOrderInvalid          = errors.New("the order parameter must be newest or oldest")
	errMonthCombined         = errors.New("the month parameter cannot be combined with from or until")
	errReverseAmountsInvalid = errors.New("the reverseAmounts parameter must be true or false")
	errNoExpenseIDs          = errors.New("at least one expense ID must be specified")
	errCategoryBudgetChanged = errors.New("the budget of a category cannot be changed")
)
