package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository on SQLite.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
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
			conds = append(conds, "substr(date, 1, 7) = ?")
			args = append(args, *filters.Month)
		}
		if filters.Category != nil {
			conds = append(conds, "category = ?")
			args = append(args, *filters.Category)
		}
		if filters.Type != nil {
			conds = append(conds, "type = ?")
			args = append(args, string(*filters.Type))
		}
		if filters.Recurring != nil {
			conds = append(conds, "recurring = ?")
			args = append(args, boolToInt(*filters.Recurring))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
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
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)

	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
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
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, description, category, amount, date, type, recurring,
			recurrence_frequency, recurrence_end_date, is_generated, parent_id, receipt_image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		insertArgs(transaction)...)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return transaction, nil
}

// CreateBatch inserts a batch of transactions in one database transaction.
func (r *TransactionRepository) CreateBatch(transactions []*domain.Transaction) error {
	ctx := context.Background()

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (id, description, category, amount, date, type, recurring,
			recurrence_frequency, recurrence_end_date, is_generated, parent_id, receipt_image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range transactions {
		if _, err := stmt.ExecContext(ctx, insertArgs(tx)...); err != nil {
			return fmt.Errorf("insert transaction %d: %w", tx.ID, err)
		}
	}

	return dbTx.Commit()
}

// Update replaces the whole record identified by the transaction's id.
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, category = ?, amount = ?, date = ?, type = ?, recurring = ?,
			recurrence_frequency = ?, recurrence_end_date = ?, is_generated = ?, parent_id = ?, receipt_image = ?
		WHERE id = ?`,
		transaction.Description,
		transaction.Category,
		transaction.Amount.String(),
		transaction.Date,
		string(transaction.Type),
		boolToInt(transaction.Recurring),
		frequencyArg(transaction.RecurrenceFrequency),
		transaction.RecurrenceEndDate,
		boolToInt(transaction.IsGenerated),
		transaction.ParentID,
		transaction.ReceiptImage,
		transaction.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// Delete removes a single transaction.
func (r *TransactionRepository) Delete(id int64) error {
	ctx := context.Background()
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
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
	query := "DELETE FROM transactions WHERE id IN (" + placeholders(len(ids)) + ")"
	res, err := r.db.ExecContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	return res.RowsAffected()
}

// UpdateCategory reassigns the category on all transactions in ids.
func (r *TransactionRepository) UpdateCategory(ids []int64, category string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx := context.Background()
	query := "UPDATE transactions SET category = ? WHERE id IN (" + placeholders(len(ids)) + ")"
	args := append([]any{category}, idArgs(ids)...)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update category: %w", err)
	}
	return res.RowsAffected()
}

// MaxID returns the highest id in the collection, 0 when empty.
func (r *TransactionRepository) MaxID() (int64, error) {
	ctx := context.Background()
	var max sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(id) FROM transactions").Scan(&max); err != nil {
		return 0, fmt.Errorf("max id: %w", err)
	}
	return max.Int64, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		tx        domain.Transaction
		amount    string
		recurring int
		generated int
		frequency sql.NullString
		endDate   sql.NullString
		parentID  sql.NullInt64
		image     sql.NullString
		txType    string
	)
	err := row.Scan(&tx.ID, &tx.Description, &tx.Category, &amount, &tx.Date, &txType,
		&recurring, &frequency, &endDate, &generated, &parentID, &image)
	if err != nil {
		return nil, err
	}

	tx.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	tx.Type = domain.TransactionType(txType)
	tx.Recurring = recurring != 0
	tx.IsGenerated = generated != 0
	if frequency.Valid {
		f := domain.RecurrenceFrequency(frequency.String)
		tx.RecurrenceFrequency = &f
	}
	if endDate.Valid {
		tx.RecurrenceEndDate = &endDate.String
	}
	if parentID.Valid {
		tx.ParentID = &parentID.Int64
	}
	if image.Valid {
		tx.ReceiptImage = &image.String
	}
	return &tx, nil
}

func insertArgs(tx *domain.Transaction) []any {
	return []any{
		tx.ID,
		tx.Description,
		tx.Category,
		tx.Amount.String(),
		tx.Date,
		string(tx.Type),
		boolToInt(tx.Recurring),
		frequencyArg(tx.RecurrenceFrequency),
		tx.RecurrenceEndDate,
		boolToInt(tx.IsGenerated),
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
