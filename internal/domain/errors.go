package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInternalError        = errors.New("internal error")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrSettingNotFound      = errors.New("setting not found")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrNegativeAmount       = errors.New("amount must be non-negative")
	ErrInvalidDate          = errors.New("date must be a valid YYYY-MM-DD calendar date")
	ErrInvalidType          = errors.New("type must be expense or income")
	ErrInvalidFrequency     = errors.New("frequency must be weekly, monthly or yearly")
	ErrEmptyCSV             = errors.New("csv file contains no rows")
	ErrIncompleteMapping    = errors.New("description, amount and date columns must be mapped")
	ErrNotRecurringTemplate = errors.New("transaction is not a recurring template")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxCategoryLength    = 100
)
