package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centime-app/centime-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, description, category, amount, date, type, recurring,
	recurrence_frequency, recurrence_end_date, is_generated, parent_id, receipt_image`

// List returns transactions matching the filters, newest date first.
func (r *TransactionRepository) List(filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := "SELECT " + transactionColumns + " FROM transactions"
	var conds []string
	var args []any

	if filters != nil {
		if filters.Month != nil {
			args = append(args, *filters.Month)
			conds = append(conds, fmt.Sprintf("substr(date, 1, 7) = $%d", len(args)))
		}
		if filters.Category != nil {
			args = append(args, *filters.Category)
			conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
		}
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
		}
		if filters.Recurring != nil {
			args = append(args, *filters.Recurring)
			conds = append(conds, fmt.Sprintf("recurring = $%d", len(args)))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// GetByID retrieves a transaction by its id.
func (r *TransactionRepository) GetByID(id int64) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1", id)

	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Create inserts a transaction under its pre-assigned id.
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (id, description, category, amount, date, type, recurring,
			recurrence_frequency, recurrence_end_date, is_generated, parent_id, receipt_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		insertArgs(transaction)...)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return transaction, nil
}

// CreateBatch inserts a batch of transactions in one database transaction.
func (r *TransactionRepository) CreateBatch(transactions []*domain.Transaction) error {
	ctx := context.Background()

	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer dbTx.Rollback(ctx)

	for _, tx := range transactions {
		_, err := dbTx.Exec(ctx, `
			INSERT INTO transactions (id, description, category, amount, date, type, recurring,
				recurrence_frequency, recurrence_end_date, is_generated, parent_id, receipt_image)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			insertArgs(tx)...)
		if err != nil {
			return fmt.Errorf("insert transaction %d: %w", tx.ID, err)
		}
	}

	return dbTx.Commit(ctx)
}

// Update replaces the whole record identified by the transaction's id.
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET description = $1, category = $2, amount = $3, date = $4, type = $5, recurring = $6,
			recurrence_frequency = $7, recurrence_end_date = $8, is_generated = $9, parent_id = $10, receipt_image = $11
		WHERE id = $12`,
		transaction.Description,
		transaction.Category,
		transaction.Amount,
		transaction.Date,
		string(transaction.Type),
		transaction.Recurring,
		frequencyArg(transaction.RecurrenceFrequency),
		transaction.RecurrenceEndDate,
		transaction.IsGenerated,
		transaction.ParentID,
		transaction.ReceiptImage,
		transaction.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// Delete removes a single transaction.
func (r *TransactionRepository) Delete(id int64) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// DeleteBatch removes all transactions in ids, returning the removed count.
func (r *TransactionRepository) DeleteBatch(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, "DELETE FROM transactions WHERE id = ANY($1)", ids)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateCategory reassigns the category on all transactions in ids.
func (r *TransactionRepository) UpdateCategory(ids []int64, category string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		"UPDATE transactions SET category = $1 WHERE id = ANY($2)", category, ids)
	if err != nil {
		return 0, fmt.Errorf("update category: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MaxID returns the highest id in the collection, 0 when empty.
func (r *TransactionRepository) MaxID() (int64, error) {
	ctx := context.Background()
	var max *int64
	if err := r.pool.QueryRow(ctx, "SELECT MAX(id) FROM transactions").Scan(&max); err != nil {
		return 0, fmt.Errorf("max id: %w", err)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		tx        domain.Transaction
		txType    string
		frequency *string
		endDate   *string
		parentID  *int64
		image     *string
	)
	err := row.Scan(&tx.ID, &tx.Description, &tx.Category, &tx.Amount, &tx.Date, &txType,
		&tx.Recurring, &frequency, &endDate, &tx.IsGenerated, &parentID, &image)
	if err != nil {
		return nil, err
	}

	tx.Type = domain.TransactionType(txType)
	if frequency != nil {
		f := domain.RecurrenceFrequency(*frequency)
		tx.RecurrenceFrequency = &f
	}
	tx.RecurrenceEndDate = endDate
	tx.ParentID = parentID
	tx.ReceiptImage = image
	return &tx, nil
}

func insertArgs(tx *domain.Transaction) []any {
	return []any{
		tx.ID,
		tx.Description,
		tx.Category,
		tx.Amount,
		tx.Date,
		string(tx.Type),
		tx.Recurring,
		frequencyArg(tx.RecurrenceFrequency),
		tx.RecurrenceEndDate,
		tx.IsGenerated,
		tx.ParentID,
		tx.ReceiptImage,
	}
}

func frequencyArg(f *domain.RecurrenceFrequency) any {
	if f == nil {
		return nil
	}
	return string(*f)
}
