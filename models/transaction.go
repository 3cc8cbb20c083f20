package models

import (
	"time"
)

// TransactionKind represents the direction of a ledger entry
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// Transaction is an immutable ledger entry. Entries are append-only and
// ordered per user by ID, which is the commit order shown in statements.
type Transaction struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	Value     int64           `db:"value"`
	Kind      TransactionKind `db:"kind"`
	CreatedAt time.Time       `db:"created_at"`
}

// Signed returns the balance delta this entry contributed.
func (t *Transaction) Signed() int64 {
	if t.Kind == TransactionKindExpense {
		return -t.Value
	}
	return t.Value
}
