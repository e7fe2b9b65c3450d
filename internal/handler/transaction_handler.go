package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/service"
	"github.com/centime-app/centime-backend/internal/websocket"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	recurringService   *service.RecurringService
	publisher          websocket.EventPublisher
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, recurringService *service.RecurringService, publisher websocket.EventPublisher) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		recurringService:   recurringService,
		publisher:          publisher,
	}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	Description         string  `json:"description"`
	Category            string  `json:"category"`
	Amount              string  `json:"amount"`
	Date                string  `json:"date"`
	Type                string  `json:"type"`
	Recurring           bool    `json:"recurring"`
	RecurrenceFrequency *string `json:"recurrenceFrequency,omitempty"`
	RecurrenceEndDate   *string `json:"recurrenceEndDate,omitempty"`
	ReceiptImage        *string `json:"receiptImage,omitempty"`
}

func (r TransactionRequest) toInput() (service.TransactionInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return service.TransactionInput{}, err
	}

	var frequency *domain.RecurrenceFrequency
	if r.RecurrenceFrequency != nil && *r.RecurrenceFrequency != "" {
		f := domain.RecurrenceFrequency(*r.RecurrenceFrequency)
		frequency = &f
	}

	return service.TransactionInput{
		Description:         r.Description,
		Category:            r.Category,
		Amount:              amount,
		Date:                r.Date,
		Type:                domain.TransactionType(r.Type),
		Recurring:           r.Recurring,
		RecurrenceFrequency: frequency,
		RecurrenceEndDate:   r.RecurrenceEndDate,
		ReceiptImage:        r.ReceiptImage,
	}, nil
}

// validationResponse maps domain validation errors to a field-level response,
// or returns false when the error is not a validation failure.
func validationResponse(c echo.Context, err error) (error, bool) {
	switch {
	case errors.Is(err, domain.ErrDescriptionRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		}), true
	case errors.Is(err, domain.ErrNegativeAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must not be negative"},
		}), true
	case errors.Is(err, domain.ErrInvalidType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be one of: income, expense"},
		}), true
	case errors.Is(err, domain.ErrInvalidFrequency):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "recurrenceFrequency", Message: "Frequency must be one of: weekly, monthly, yearly"},
		}), true
	case errors.Is(err, domain.ErrInvalidDate):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Must be a valid calendar date"},
		}), true
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Validation failed", nil), true
	}
	return nil, false
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	transaction, err := h.transactionService.CreateTransaction(input)
	if err != nil {
		if resp, ok := validationResponse(c, err); ok {
			return resp
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Int64("transaction_id", transaction.ID).Str("description", transaction.Description).Msg("Transaction created")
	h.publisher.Publish(websocket.TransactionCreated(transaction))

	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions handles GET /transactions with optional filters
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	filters := &domain.TransactionFilters{}

	if month := c.QueryParam("month"); month != "" {
		filters.Month = &month
	}
	if category := c.QueryParam("category"); category != "" {
		filters.Category = &category
	}
	if txType := c.QueryParam("type"); txType != "" {
		t := domain.TransactionType(txType)
		if !t.Valid() {
			return NewValidationError(c, "Invalid type filter", []ValidationError{
				{Field: "type", Message: "Type must be one of: income, expense"},
			})
		}
		filters.Type = &t
	}
	if recurring := c.QueryParam("recurring"); recurring != "" {
		value, err := strconv.ParseBool(recurring)
		if err != nil {
			return NewValidationError(c, "Invalid recurring filter", []ValidationError{
				{Field: "recurring", Message: "Must be true or false"},
			})
		}
		filters.Recurring = &value
	}

	transactions, err := h.transactionService.GetTransactions(filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}
	if transactions == nil {
		transactions = []*domain.Transaction{}
	}

	return c.JSON(http.StatusOK, transactions)
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int64("transaction_id", id).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction handles PUT /transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	transaction, err := h.transactionService.UpdateTransaction(id, input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if resp, ok := validationResponse(c, err); ok {
			return resp
		}
		log.Error().Err(err).Int64("transaction_id", id).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	h.publisher.Publish(websocket.TransactionUpdated(transaction))

	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE /transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int64("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Int64("transaction_id", id).Msg("Transaction deleted")
	h.publisher.Publish(websocket.TransactionDeleted(map[string]int64{"id": id}))

	return c.NoContent(http.StatusNoContent)
}

// BulkIDsRequest carries the id selection of a bulk operation
type BulkIDsRequest struct {
	IDs []int64 `json:"ids"`
}

// BulkDelete handles POST /transactions/bulk/delete
func (h *TransactionHandler) BulkDelete(c echo.Context) error {
	var req BulkIDsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(req.IDs) == 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "ids", Message: "At least one ID is required"},
		})
	}

	deleted, err := h.transactionService.BulkDelete(req.IDs)
	if err != nil {
		log.Error().Err(err).Msg("Failed to bulk delete transactions")
		return NewInternalError(c, "Failed to delete transactions")
	}

	log.Info().Int64("deleted", deleted).Msg("Transactions bulk deleted")
	h.publisher.Publish(websocket.TransactionDeleted(map[string]interface{}{"ids": req.IDs}))

	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

// BulkCategoryRequest reassigns a category to a selection of transactions
type BulkCategoryRequest struct {
	IDs      []int64 `json:"ids"`
	Category string  `json:"category"`
}

// BulkSetCategory handles POST /transactions/bulk/category
func (h *TransactionHandler) BulkSetCategory(c echo.Context) error {
	var req BulkCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(req.IDs) == 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "ids", Message: "At least one ID is required"},
		})
	}

	updated, err := h.transactionService.BulkSetCategory(req.IDs, req.Category)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Category is required"},
			})
		}
		log.Error().Err(err).Msg("Failed to bulk set category")
		return NewInternalError(c, "Failed to update transactions")
	}

	h.publisher.Publish(websocket.TransactionUpdated(map[string]interface{}{"ids": req.IDs, "category": req.Category}))

	return c.JSON(http.StatusOK, map[string]int64{"updated": updated})
}

// BulkRecurringRequest toggles the recurring flag on a selection
type BulkRecurringRequest struct {
	IDs       []int64 `json:"ids"`
	Recurring bool    `json:"recurring"`
}

// BulkSetRecurring handles POST /transactions/bulk/recurring
func (h *TransactionHandler) BulkSetRecurring(c echo.Context) error {
	var req BulkRecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(req.IDs) == 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "ids", Message: "At least one ID is required"},
		})
	}

	updated, err := h.transactionService.BulkSetRecurring(req.IDs, req.Recurring)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to bulk set recurring")
		return NewInternalError(c, "Failed to update transactions")
	}

	h.publisher.Publish(websocket.TransactionUpdated(updated))

	return c.JSON(http.StatusOK, updated)
}

// ExpandRequest holds the date range and optional frequency override for a
// recurring template expansion.
type ExpandRequest struct {
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`
	Frequency *string `json:"frequency,omitempty"`
}

// ExpandRecurring handles POST /transactions/:id/expand
func (h *TransactionHandler) ExpandRecurring(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req ExpandRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.ExpandInput{
		TemplateID: id,
		Start:      req.StartDate,
		End:        req.EndDate,
	}
	if req.Frequency != nil && *req.Frequency != "" {
		f := domain.RecurrenceFrequency(*req.Frequency)
		input.Frequency = &f
	}

	occurrences, err := h.recurringService.Expand(input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, domain.ErrNotRecurringTemplate):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "id", Message: "Transaction is not a recurring template"},
			})
		case errors.Is(err, domain.ErrInvalidDate):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "startDate", Message: "Start and end must be valid dates (endDate required when the template has no end date)"},
			})
		case errors.Is(err, domain.ErrInvalidFrequency):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "frequency", Message: "Frequency must be one of: weekly, monthly, yearly"},
			})
		}
		log.Error().Err(err).Int64("template_id", id).Msg("Failed to expand recurring template")
		return NewInternalError(c, "Failed to expand recurring template")
	}

	log.Info().Int64("template_id", id).Int("occurrences", len(occurrences)).Msg("Recurring template expanded")
	h.publisher.Publish(websocket.RecurringExpanded(occurrences))

	return c.JSON(http.StatusCreated, occurrences)
}
