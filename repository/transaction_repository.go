package repository

import (
	"context"
	"fmt"

	"caixinha/database"
	"caixinha/models"
)

// TransactionRepository implements the service.TransactionRepository interface
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Append creates a new ledger entry. Entries are never updated or deleted.
func (r *TransactionRepository) Append(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, value, kind)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		transaction.UserID,
		transaction.Value,
		transaction.Kind,
	).Scan(&transaction.ID, &transaction.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append transaction for user %d: %w", transaction.UserID, err)
	}

	return nil
}

// ListByUser returns all ledger entries for a user ordered by commit order
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, value, kind, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Value,
			&t.Kind,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
