package domain

import (
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type RecurrenceFrequency string

const (
	RecurrenceWeekly  RecurrenceFrequency = "weekly"
	RecurrenceMonthly RecurrenceFrequency = "monthly"
	RecurrenceYearly  RecurrenceFrequency = "yearly"
)

func (f RecurrenceFrequency) Valid() bool {
	return f == RecurrenceWeekly || f == RecurrenceMonthly || f == RecurrenceYearly
}

// DefaultCategories is the suggested starter taxonomy; category remains free text.
var DefaultCategories = []string{"Alimentation", "Transport", "Loisirs", "Abonnements", "Autre"}

// Transaction is a single dated money movement. Amount is always a
// non-negative magnitude; direction is carried by Type. Date is a canonical
// ISO calendar date (YYYY-MM-DD) with no time component.
type Transaction struct {
	ID                  int64                `json:"id"`
	Description         string               `json:"description"`
	Category            string               `json:"category"`
	Amount              decimal.Decimal      `json:"amount"`
	Date                string               `json:"date"`
	Type                TransactionType      `json:"type"`
	Recurring           bool                 `json:"recurring"`
	RecurrenceFrequency *RecurrenceFrequency `json:"recurrenceFrequency,omitempty"`
	RecurrenceEndDate   *string              `json:"recurrenceEndDate,omitempty"`
	IsGenerated         bool                 `json:"isGenerated,omitempty"`
	ParentID            *int64               `json:"parentId,omitempty"`
	ReceiptImage        *string              `json:"receiptImage,omitempty"`
}

type TransactionFilters struct {
	Month     *string // YYYY-MM
	Category  *string
	Type      *TransactionType
	Recurring *bool
}

type TransactionRepository interface {
	List(filters *TransactionFilters) ([]*Transaction, error)
	GetByID(id int64) (*Transaction, error)
	Create(transaction *Transaction) (*Transaction, error)
	CreateBatch(transactions []*Transaction) error
	Update(transaction *Transaction) (*Transaction, error)
	Delete(id int64) error
	DeleteBatch(ids []int64) (int64, error)
	UpdateCategory(ids []int64, category string) (int64, error)
	MaxID() (int64, error)
}
