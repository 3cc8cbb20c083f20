package service

import (
	"context"
	"fmt"

	"caixinha/events"
	"caixinha/models"
)

// ledgerService implements the LedgerService interface. It holds no state
// of its own: every operation reads, validates and writes through one unit
// of work, so the balance update and the ledger append commit as a single
// atomic unit.
type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

func (s *ledgerService) Deposit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return 0, ErrUserNotFound
	}

	newBalance, err := uow.UserRepository().AddBalance(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to add balance: %w", err)
	}

	entry := &models.Transaction{
		UserID: userID,
		Value:  amount,
		Kind:   models.TransactionKindIncome,
	}
	if err := uow.TransactionRepository().Append(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to append transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       userID,
		ExternalID:   user.ExternalID,
		OldBalance:   newBalance - amount,
		NewBalance:   newBalance,
		Kind:         models.TransactionKindIncome,
		ChangeAmount: amount,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}

func (s *ledgerService) Withdraw(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return 0, ErrUserNotFound
	}

	// The conditional update is the only overdraft guard that holds under
	// concurrent withdrawals for the same user; the balance read above is
	// informational only.
	newBalance, err := uow.UserRepository().DeductBalance(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	entry := &models.Transaction{
		UserID: userID,
		Value:  amount,
		Kind:   models.TransactionKindExpense,
	}
	if err := uow.TransactionRepository().Append(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to append transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       userID,
		ExternalID:   user.ExternalID,
		OldBalance:   newBalance + amount,
		NewBalance:   newBalance,
		Kind:         models.TransactionKindExpense,
		ChangeAmount: -amount,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}

func (s *ledgerService) Balance(ctx context.Context, userID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.BeginRead(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return 0, ErrUserNotFound
	}

	return user.Balance, nil
}

// Statement reads the balance and the full ledger from one snapshot so
// the pair is never torn by a concurrent deposit or withdrawal.
func (s *ledgerService) Statement(ctx context.Context, userID int64) (int64, []*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.BeginRead(ctx); err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return 0, nil, ErrUserNotFound
	}

	transactions, err := uow.TransactionRepository().ListByUser(ctx, userID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return user.Balance, transactions, nil
}
