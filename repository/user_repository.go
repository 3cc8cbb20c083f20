package repository

import (
	"context"
	"errors"
	"fmt"

	"caixinha/database"
	"caixinha/models"
	"caixinha/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for unique constraint violations
const pgUniqueViolation = "23505"

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByExternalID retrieves a user by their chat-network identity
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	query := `
		SELECT id, external_id, balance, created_at, updated_at
		FROM users
		WHERE external_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, externalID).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by external ID %s: %w", externalID, err)
	}

	return &user, nil
}

// GetByID retrieves a user by internal ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, external_id, balance, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	return &user, nil
}

// Create creates a new user with a zero balance
func (r *UserRepository) Create(ctx context.Context, externalID string) (*models.User, error) {
	query := `
		INSERT INTO users (external_id, balance)
		VALUES ($1, 0)
		RETURNING id, external_id, balance, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, externalID).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("external ID %s: %w", externalID, service.ErrUserAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create user with external ID %s: %w", externalID, err)
	}

	return &user, nil
}

// UpdateBalance sets a user's balance to an absolute value
func (r *UserRepository) UpdateBalance(ctx context.Context, userID int64, newBalance int64) error {
	query := `
		UPDATE users
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, newBalance, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}

	return nil
}

// AddBalance atomically increments a user's balance and returns the
// resulting balance
func (r *UserRepository) AddBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, service.ErrInvalidAmount
	}

	query := `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, amount, userID).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, service.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add balance for user %d: %w", userID, err)
	}

	return balance, nil
}

// DeductBalance atomically decrements a user's balance, failing with
// ErrInsufficientFunds when the balance is too small. The conditional
// update serializes concurrent withdrawals on the row lock, so only one of
// two racing withdrawals can drain the same funds.
func (r *UserRepository) DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, service.ErrInvalidAmount
	}

	query := `
		UPDATE users
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, amount, userID).Scan(&balance)
	if err == pgx.ErrNoRows {
		// No row updated: user missing or insufficient funds
		user, lookupErr := r.GetByID(ctx, userID)
		if lookupErr != nil {
			return 0, fmt.Errorf("failed to check user: %w", lookupErr)
		}
		if user == nil {
			return 0, service.ErrUserNotFound
		}
		return 0, fmt.Errorf("have %d, need %d: %w", user.Balance, amount, service.ErrInsufficientFunds)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct balance for user %d: %w", userID, err)
	}

	return balance, nil
}
