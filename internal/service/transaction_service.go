package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/util"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	settingsRepo    domain.SettingsRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, settingsRepo domain.SettingsRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		settingsRepo:    settingsRepo,
	}
}

// TransactionInput holds the input for creating or replacing a transaction
type TransactionInput struct {
	Description         string
	Category            string
	Amount              decimal.Decimal
	Date                string
	Type                domain.TransactionType
	Recurring           bool
	RecurrenceFrequency *domain.RecurrenceFrequency
	RecurrenceEndDate   *string
	ReceiptImage        *string
}

func (s *TransactionService) validateInput(input TransactionInput) (*domain.Transaction, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrInvalidInput
	}

	if input.Amount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	if !input.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	if input.RecurrenceFrequency != nil && !input.RecurrenceFrequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}

	// Unparseable dates silently fall back to today; a string that looks ISO
	// but is not a real calendar date is rejected instead of stored.
	date := util.NormalizeDate(input.Date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, domain.ErrInvalidDate
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "Autre"
	}
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrInvalidInput
	}

	return &domain.Transaction{
		Description:         description,
		Category:            category,
		Amount:              input.Amount,
		Date:                date,
		Type:                input.Type,
		Recurring:           input.Recurring,
		RecurrenceFrequency: input.RecurrenceFrequency,
		RecurrenceEndDate:   input.RecurrenceEndDate,
		ReceiptImage:        input.ReceiptImage,
	}, nil
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(input TransactionInput) (*domain.Transaction, error) {
	transaction, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	maxID, err := s.transactionRepo.MaxID()
	if err != nil {
		return nil, err
	}
	transaction.ID = maxID + 1

	return s.transactionRepo.Create(transaction)
}

// GetTransactions retrieves transactions with optional filters
func (s *TransactionService) GetTransactions(filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	return s.transactionRepo.List(filters)
}

// GetTransactionByID retrieves a transaction by ID
func (s *TransactionService) GetTransactionByID(id int64) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(id)
}

// UpdateTransaction replaces the whole record identified by id
func (s *TransactionService) UpdateTransaction(id int64, input TransactionInput) (*domain.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	transaction, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}
	transaction.ID = existing.ID
	transaction.IsGenerated = existing.IsGenerated
	transaction.ParentID = existing.ParentID

	return s.transactionRepo.Update(transaction)
}

// DeleteTransaction removes a single transaction
func (s *TransactionService) DeleteTransaction(id int64) error {
	return s.transactionRepo.Delete(id)
}

// BulkDelete removes all transactions in ids, returning the removed count
func (s *TransactionService) BulkDelete(ids []int64) (int64, error) {
	return s.transactionRepo.DeleteBatch(ids)
}

// BulkSetCategory reassigns the category on all transactions in ids
func (s *TransactionService) BulkSetCategory(ids []int64, category string) (int64, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return 0, domain.ErrInvalidInput
	}
	return s.transactionRepo.UpdateCategory(ids, category)
}

// BulkSetRecurring toggles the recurring flag on all transactions in ids
func (s *TransactionService) BulkSetRecurring(ids []int64, recurring bool) ([]*domain.Transaction, error) {
	updated := make([]*domain.Transaction, 0, len(ids))
	for _, id := range ids {
		tx, err := s.transactionRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		tx.Recurring = recurring
		tx, err = s.transactionRepo.Update(tx)
		if err != nil {
			return nil, err
		}
		updated = append(updated, tx)
	}
	return updated, nil
}

// seedTransactions is the starter set shown on a fresh install.
var seedTransactions = []*domain.Transaction{
	{ID: 1, Description: "Courses Carrefour", Category: "Alimentation", Amount: decimal.NewFromFloat(45.5), Date: "2025-11-30", Type: domain.TransactionTypeExpense},
	{ID: 2, Description: "Cinéma", Category: "Loisirs", Amount: decimal.NewFromFloat(24), Date: "2025-11-29", Type: domain.TransactionTypeExpense},
	{ID: 3, Description: "Essence", Category: "Transport", Amount: decimal.NewFromFloat(65), Date: "2025-11-28", Type: domain.TransactionTypeExpense},
	{ID: 4, Description: "Netflix", Category: "Abonnements", Amount: decimal.NewFromFloat(13.99), Date: "2025-11-27", Type: domain.TransactionTypeExpense, Recurring: true},
}

// SeedIfFirstRun inserts the example transactions when the store has never
// held data. The seeded marker keeps a deliberately emptied store empty.
func (s *TransactionService) SeedIfFirstRun() (bool, error) {
	if _, err := s.settingsRepo.Get(domain.SettingSeeded); err == nil {
		return false, nil
	} else if err != domain.ErrSettingNotFound {
		return false, err
	}

	existing, err := s.transactionRepo.List(nil)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, s.settingsRepo.Set(domain.SettingSeeded, "true")
	}

	seed := make([]*domain.Transaction, len(seedTransactions))
	for i, tx := range seedTransactions {
		copied := *tx
		freq := domain.RecurrenceMonthly
		if copied.Recurring {
			copied.RecurrenceFrequency = &freq
		}
		seed[i] = &copied
	}
	if err := s.transactionRepo.CreateBatch(seed); err != nil {
		return false, err
	}
	return true, s.settingsRepo.Set(domain.SettingSeeded, "true")
}
