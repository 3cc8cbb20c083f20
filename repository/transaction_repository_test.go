package repository

import (
	"context"
	"testing"

	"caixinha/models"
	"caixinha/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_Append(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()

	user, err := users.Create(ctx, "5511999990000")
	require.NoError(t, err)

	t.Run("fills in id and timestamp", func(t *testing.T) {
		entry := testutil.CreateTestIncome(user.ID, 100)
		err := repo.Append(ctx, entry)
		require.NoError(t, err)

		assert.NotZero(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("non-positive value rejected by schema", func(t *testing.T) {
		entry := testutil.CreateTestIncome(user.ID, 0)
		err := repo.Append(ctx, entry)
		assert.Error(t, err)
	})

	t.Run("dangling user rejected", func(t *testing.T) {
		entry := testutil.CreateTestExpense(999999, 10)
		err := repo.Append(ctx, entry)
		assert.Error(t, err)
	})
}

func TestTransactionRepository_ListByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()

	user, err := users.Create(ctx, "5511999990001")
	require.NoError(t, err)

	t.Run("empty ledger", func(t *testing.T) {
		entries, err := repo.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("entries come back in commit order", func(t *testing.T) {
		appended := []*models.Transaction{
			testutil.CreateTestIncome(user.ID, 100),
			testutil.CreateTestExpense(user.ID, 60),
			testutil.CreateTestIncome(user.ID, 5),
		}
		for _, entry := range appended {
			require.NoError(t, repo.Append(ctx, entry))
		}

		entries, err := repo.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		for i, entry := range entries {
			assert.Equal(t, appended[i].ID, entry.ID)
			assert.Equal(t, appended[i].Value, entry.Value)
			assert.Equal(t, appended[i].Kind, entry.Kind)
		}
	})

	t.Run("other users' entries are not visible", func(t *testing.T) {
		other, err := users.Create(ctx, "5511999990002")
		require.NoError(t, err)

		entries, err := repo.ListByUser(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
