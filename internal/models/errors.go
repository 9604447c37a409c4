package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Validation errors
var (
	ErrBudgetNameEmpty   = errors.New("the name of a budget must not be empty")
	ErrCategoryNameEmpty = errors.New("the name of a category must not be empty")
	ErrReferenceInvalid  = errors.New("a resource ID you specified does not identify an existing resource")
)
