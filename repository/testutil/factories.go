package testutil

import (
	"caixinha/models"
)

// CreateTestTransaction creates a ledger entry ready to append
func CreateTestTransaction(userID int64, value int64, kind models.TransactionKind) *models.Transaction {
	return &models.Transaction{
		UserID: userID,
		Value:  value,
		Kind:   kind,
	}
}

// CreateTestIncome creates an income entry
func CreateTestIncome(userID int64, value int64) *models.Transaction {
	return CreateTestTransaction(userID, value, models.TransactionKindIncome)
}

// CreateTestExpense creates an expense entry
func CreateTestExpense(userID int64, value int64) *models.Transaction {
	return CreateTestTransaction(userID, value, models.TransactionKindExpense)
}
