package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"caixinha/events"
	"caixinha/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newLedgerFixture() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockTransactionRepository, *RecordingEventPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockTransactionRepo := new(MockTransactionRepository)
	publisher := &RecordingEventPublisher{}

	mockUoW.SetRepositories(mockUserRepo, mockTransactionRepo, publisher)
	mockFactory.On("Create").Return(mockUoW)

	return mockFactory, mockUoW, mockUserRepo, mockTransactionRepo, publisher
}

func TestLedgerService_Deposit_Success(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockTransactionRepo, publisher := newLedgerFixture()

	svc := NewLedgerService(mockFactory)

	user := &models.User{ID: 1, ExternalID: "5511999990000", Balance: 50}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(user, nil)
	mockUserRepo.On("AddBalance", ctx, int64(1), int64(100)).Return(int64(150), nil)
	mockTransactionRepo.On("Append", ctx, mock.MatchedBy(func(tr *models.Transaction) bool {
		return tr.UserID == 1 &&
			tr.Value == 100 &&
			tr.Kind == models.TransactionKindIncome
	})).Return(nil)

	newBalance, err := svc.Deposit(ctx, 1, 100)

	assert.NoError(t, err)
	assert.Equal(t, int64(150), newBalance)

	if assert.Len(t, publisher.Events, 1) {
		change, ok := publisher.Events[0].(events.BalanceChangeEvent)
		assert.True(t, ok)
		assert.Equal(t, int64(50), change.OldBalance)
		assert.Equal(t, int64(150), change.NewBalance)
		assert.Equal(t, int64(100), change.ChangeAmount)
		assert.Equal(t, models.TransactionKindIncome, change.Kind)
	}

	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockTransactionRepo.AssertExpectations(t)
}

func TestLedgerService_Deposit_InvalidAmount(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, _, _, _ := newLedgerFixture()

	svc := NewLedgerService(mockFactory)

	for _, amount := range []int64{0, -10} {
		newBalance, err := svc.Deposit(ctx, 1, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Zero(t, newBalance)
	}

	// Validation fails before any storage work starts
	mockFactory.AssertNotCalled(t, "Create")
}

func TestLedgerService_Deposit_AppendFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockTransactionRepo, _ := newLedgerFixture()

	svc := NewLedgerService(mockFactory)

	user := &models.User{ID: 1, ExternalID: "5511999990000", Balance: 50}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(user, nil)
	mockUserRepo.On("AddBalance", ctx, int64(1), int64(100)).Return(int64(150), nil)
	mockTransactionRepo.On("Append", ctx, mock.Anything).Return(errors.New("disk full"))

	newBalance, err := svc.Deposit(ctx, 1, 100)

	assert.Error(t, err)
	assert.Zero(t, newBalance)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Withdraw_Success(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockTransactionRepo, publisher := newLedgerFixture()

	svc := NewLedgerService(mockFactory)

	user := &models.User{ID: 1, ExternalID: "5511999990000", Balance: 100}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(user, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(1), int64(60)).Return(int64(40), nil)
	mockTransactionRepo.On("Append", ctx, mock.MatchedBy(func(tr *models.Transaction) bool {
		return tr.UserID == 1 &&
			tr.Value == 60 &&
			tr.Kind == models.TransactionKindExpense
	})).Return(nil)

	newBalance, err := svc.Withdraw(ctx, 1, 60)

	assert.NoError(t, err)
	assert.Equal(t, int64(40), newBalance)

	if assert.Len(t, publisher.Events, 1) {
		change, ok := publisher.Events[0].(events.BalanceChangeEvent)
		assert.True(t, ok)
		assert.Equal(t, int64(-60), change.ChangeAmount)
		assert.Equal(t, models.TransactionKindExpense, change.Kind)
	}

	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockTransactionRepo.AssertExpectations(t)
}

func TestLedgerService_Withdraw_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockTransactionRepo, publisher := newLedgerFixture()

	svc := NewLedgerService(mockFactory)

	user := &models.User{ID: 1, ExternalID: "5511999990000", Balance: 50}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(user, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(1), int64(60)).
		Return(int64(0), fmt.Errorf("have 50, need 60: %w", ErrInsufficientFunds))

	newBalance, err := svc.Withdraw(ctx, 1, 60)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Zero(t, newBalance)
	assert.Empty(t, publisher.Events)

	mockTransactionRepo.AssertNotCalled(t, "Append")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Withdraw_UserNotFound(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _, _ := newLedgerFixture()

	svc := NewLedgerService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(42)).Return(nil, nil)

	newBalance, err := svc.Withdraw(ctx, 42, 10)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, newBalance)
	mockUserRepo.AssertNotCalled(t, "DeductBalance")
}

func TestLedgerService_Balance(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _, _ := newLedgerFixture()

	svc := NewLedgerService(mockFactory)

	user := &models.User{ID: 1, ExternalID: "5511999990000", Balance: 123}

	mockUoW.On("BeginRead", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(user, nil)

	balance, err := svc.Balance(ctx, 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(123), balance)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Statement(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockTransactionRepo, _ := newLedgerFixture()

	svc := NewLedgerService(mockFactory)

	user := &models.User{ID: 1, ExternalID: "5511999990000", Balance: 40}
	ledger := []*models.Transaction{
		{ID: 1, UserID: 1, Value: 100, Kind: models.TransactionKindIncome, CreatedAt: time.Now()},
		{ID: 2, UserID: 1, Value: 60, Kind: models.TransactionKindExpense, CreatedAt: time.Now()},
	}

	mockUoW.On("BeginRead", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(user, nil)
	mockTransactionRepo.On("ListByUser", ctx, int64(1)).Return(ledger, nil)

	balance, transactions, err := svc.Statement(ctx, 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(40), balance)
	assert.Equal(t, ledger, transactions)

	// balance == sum(income) - sum(expense) over the returned ledger
	var sum int64
	for _, tr := range transactions {
		sum += tr.Signed()
	}
	assert.Equal(t, balance, sum)
}
