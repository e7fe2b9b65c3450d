// Package testutil provides map-backed mock repositories for service and
// handler tests.
package testutil

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/repository/storage"
)

// MockTransactionRepository is an in-memory domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int64]*domain.Transaction

	// ForcedError is returned by every method when set
	ForcedError error
}

// NewMockTransactionRepository creates an empty mock repository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int64]*domain.Transaction),
	}
}

// AddTransaction seeds the mock with a transaction
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	copied := *tx
	m.Transactions[tx.ID] = &copied
}

func (m *MockTransactionRepository) List(filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if m.ForcedError != nil {
		return nil, m.ForcedError
	}
	var out []*domain.Transaction
	for _, tx := range m.Transactions {
		if filters != nil {
			if filters.Month != nil && !strings.HasPrefix(tx.Date, *filters.Month) {
				continue
			}
			if filters.Category != nil && tx.Category != *filters.Category {
				continue
			}
			if filters.Type != nil && tx.Type != *filters.Type {
				continue
			}
			if filters.Recurring != nil && tx.Recurring != *filters.Recurring {
				continue
			}
		}
		copied := *tx
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MockTransactionRepository) GetByID(id int64) (*domain.Transaction, error) {
	if m.ForcedError != nil {
		return nil, m.ForcedError
	}
	tx, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (m *MockTransactionRepository) Create(tx *domain.Transaction) (*domain.Transaction, error) {
	if m.ForcedError != nil {
		return nil, m.ForcedError
	}
	m.AddTransaction(tx)
	return tx, nil
}

func (m *MockTransactionRepository) CreateBatch(transactions []*domain.Transaction) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	for _, tx := range transactions {
		m.AddTransaction(tx)
	}
	return nil
}

func (m *MockTransactionRepository) Update(tx *domain.Transaction) (*domain.Transaction, error) {
	if m.ForcedError != nil {
		return nil, m.ForcedError
	}
	if _, ok := m.Transactions[tx.ID]; !ok {
		return nil, domain.ErrTransactionNotFound
	}
	m.AddTransaction(tx)
	return tx, nil
}

func (m *MockTransactionRepository) Delete(id int64) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	if _, ok := m.Transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

func (m *MockTransactionRepository) DeleteBatch(ids []int64) (int64, error) {
	if m.ForcedError != nil {
		return 0, m.ForcedError
	}
	var removed int64
	for _, id := range ids {
		if _, ok := m.Transactions[id]; ok {
			delete(m.Transactions, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MockTransactionRepository) UpdateCategory(ids []int64, category string) (int64, error) {
	if m.ForcedError != nil {
		return 0, m.ForcedError
	}
	var updated int64
	for _, id := range ids {
		if tx, ok := m.Transactions[id]; ok {
			tx.Category = category
			updated++
		}
	}
	return updated, nil
}

func (m *MockTransactionRepository) MaxID() (int64, error) {
	if m.ForcedError != nil {
		return 0, m.ForcedError
	}
	var max int64
	for id := range m.Transactions {
		if id > max {
			max = id
		}
	}
	return max, nil
}

// MockSettingsRepository is an in-memory domain.SettingsRepository
type MockSettingsRepository struct {
	Values map[string]string
}

// NewMockSettingsRepository creates an empty mock repository
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{Values: make(map[string]string)}
}

func (m *MockSettingsRepository) Get(key string) (string, error) {
	value, ok := m.Values[key]
	if !ok {
		return "", domain.ErrSettingNotFound
	}
	return value, nil
}

func (m *MockSettingsRepository) Set(key, value string) error {
	m.Values[key] = value
	return nil
}

// MockImageRepository is an in-memory storage.ImageRepository
type MockImageRepository struct {
	Objects map[string][]byte
}

// NewMockImageRepository creates an empty mock object store
func NewMockImageRepository() *MockImageRepository {
	return &MockImageRepository{Objects: make(map[string][]byte)}
}

func (m *MockImageRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf
	return objectPath, nil
}

func (m *MockImageRepository) Download(ctx context.Context, objectPath string) ([]byte, error) {
	data, ok := m.Objects[objectPath]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (m *MockImageRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	return nil
}

func (m *MockImageRepository) List(ctx context.Context, prefix string) ([]string, error) {
	var paths []string
	for path := range m.Objects {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
