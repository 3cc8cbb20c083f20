package service

import (
	"context"

	"caixinha/events"
	"caixinha/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByExternalID retrieves a user by their chat-network identity.
	// Returns nil without error when no such user exists.
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)

	// GetByID retrieves a user by internal ID.
	// Returns nil without error when no such user exists.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Create creates a new user with a zero balance. Fails with
	// ErrUserAlreadyExists when the external ID is already taken.
	Create(ctx context.Context, externalID string) (*models.User, error)

	// UpdateBalance sets a user's balance to an absolute value
	UpdateBalance(ctx context.Context, userID int64, newBalance int64) error

	// AddBalance atomically increments a user's balance and returns the
	// resulting balance
	AddBalance(ctx context.Context, userID int64, amount int64) (int64, error)

	// DeductBalance atomically decrements a user's balance and returns the
	// resulting balance. Fails with ErrInsufficientFunds when the current
	// balance is smaller than amount, leaving the row untouched.
	DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error)
}

// TransactionRepository defines the interface for ledger entry access
type TransactionRepository interface {
	// Append creates a new ledger entry, filling in ID and CreatedAt
	Append(ctx context.Context, transaction *models.Transaction) error

	// ListByUser returns all ledger entries for a user in commit order
	ListByUser(ctx context.Context, userID int64) ([]*models.Transaction, error)
}

// UserService defines the interface for user identity operations
type UserService interface {
	// GetOrCreateUser retrieves an existing user or creates a new one
	// with a zero balance
	GetOrCreateUser(ctx context.Context, externalID string) (*models.User, error)
}

// LedgerService defines the interface for balance-affecting operations
type LedgerService interface {
	// Deposit increments the balance and appends an income entry,
	// returning the new balance
	Deposit(ctx context.Context, userID int64, amount int64) (int64, error)

	// Withdraw decrements the balance and appends an expense entry,
	// returning the new balance. Fails with ErrInsufficientFunds when
	// amount exceeds the current balance.
	Withdraw(ctx context.Context, userID int64, amount int64) (int64, error)

	// Balance returns the current balance
	Balance(ctx context.Context, userID int64) (int64, error)

	// Statement returns the current balance together with the full
	// ledger in commit order, read as one consistent pair
	Statement(ctx context.Context, userID int64) (int64, []*models.Transaction, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// BeginRead starts a read-only transaction whose reads all come from
	// a single snapshot. Use it for operations that return multiple
	// values that must be consistent with each other.
	BeginRead(ctx context.Context) error

	// Commit commits the transaction and flushes staged events
	Commit() error

	// Rollback rolls back the transaction and discards staged events
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	TransactionRepository() TransactionRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
