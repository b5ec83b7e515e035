package memory

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

func createAccount(t *testing.T, s *Storage, ownerID uuid.UUID, name string, initial string) *account.Account {
	t.Helper()
	w, err := s.Write(context.Background())
	require.NoError(t, err)
	acc, err := w.Account.Create(context.Background(), &account.AccountCreate{
		OwnerID:        ownerID,
		Name:           name,
		InitialBalance: decimal.RequireFromString(initial),
	})
	require.NoError(t, err)
	require.NoError(t, w.Commit())
	return acc
}

func TestWrite_CommitIsVisibleToReaders(t *testing.T) {
	s := New()
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())

	acc := createAccount(t, s, ownerID, "Checking", "1000.00")

	found, err := s.Read().Accounts.FindByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", found.Name)
	assert.True(t, found.Balance.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, found.IsActive)
	assert.Equal(t, account.DefaultCurrency, found.Currency)
}

func TestWrite_RollbackDiscardsChanges(t *testing.T) {
	s := New()
	ctx := context.Background()
	acc := createAccount(t, s, uuid.Must(uuid.NewV4()), "Checking", "1000.00")

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.Account.UpdateBalance(ctx, acc.ID, decimal.RequireFromString("1.00")))

	inUnit, err := w.Account.FindByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, inUnit.Balance.Equal(decimal.RequireFromString("1.00")), "unit sees its own write")

	committed, err := s.Read().Accounts.FindByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, committed.Balance.Equal(decimal.RequireFromString("1000.00")), "readers do not see uncommitted writes")

	require.NoError(t, w.Rollback())

	after, err := s.Read().Accounts.FindByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, after.Balance.Equal(decimal.RequireFromString("1000.00")))
}

func TestWrite_SerializesUnits(t *testing.T) {
	s := New()
	first, err := s.Write(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.Write(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "second unit waits for the first")

	require.NoError(t, first.Rollback())

	second, err := s.Write(context.Background())
	require.NoError(t, err)
	require.NoError(t, second.Commit())
}

func TestUnit_CommitTwiceFails(t *testing.T) {
	s := New()
	w, err := s.Write(context.Background())
	require.NoError(t, err)

	require.NoError(t, w.Commit())
	assert.ErrorIs(t, w.Commit(), ErrUnitFinished)
	assert.NoError(t, w.Rollback(), "rollback after commit is a no-op")
}

func TestAccounts_ListFiltersInactiveAndOwner(t *testing.T) {
	s := New()
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	otherOwner := uuid.Must(uuid.NewV4())

	active := createAccount(t, s, ownerID, "A-Checking", "0")
	inactive := createAccount(t, s, ownerID, "B-Savings", "0")
	createAccount(t, s, otherOwner, "C-Other", "0")

	w, err := s.Write(ctx)
	require.NoError(t, err)
	_, err = w.Account.Update(ctx, inactive.ID, &account.AccountUpdate{IsActive: omit.From(false)})
	require.NoError(t, err)
	require.NoError(t, w.Commit())

	result, err := s.Read().Accounts.List(ctx, &account.AccountFilter{OwnerID: &ownerID})
	require.NoError(t, err)
	require.Len(t, result.Accounts, 1)
	assert.Equal(t, active.ID, result.Accounts[0].ID)

	result, err = s.Read().Accounts.List(ctx, &account.AccountFilter{OwnerID: &ownerID, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, result.Accounts, 2)

	all, err := s.Read().Accounts.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAccounts_ListPaginates(t *testing.T) {
	s := New()
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	for _, name := range []string{"a", "b", "c"} {
		createAccount(t, s, ownerID, name, "0")
	}

	page, err := s.Read().Accounts.List(ctx, &account.AccountFilter{OwnerID: &ownerID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Accounts, 2)
	assert.Equal(t, "a", page.Accounts[0].Name)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, 2, page.NextCursor.Position)

	page, err = s.Read().Accounts.List(ctx, &account.AccountFilter{OwnerID: &ownerID, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page.Accounts, 1)
	assert.Equal(t, "c", page.Accounts[0].Name)
	assert.Nil(t, page.NextCursor)
}

func TestAccounts_DeleteRefusedWhileReferenced(t *testing.T) {
	s := New()
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	acc := createAccount(t, s, ownerID, "Checking", "0")

	w, err := s.Write(ctx)
	require.NoError(t, err)
	tx, err := w.Transaction.Insert(ctx, &transaction.TransactionCreate{
		OwnerID:         ownerID,
		AccountID:       uuid.NullUUID{UUID: acc.ID, Valid: true},
		Amount:          decimal.RequireFromString("10"),
		TransactionType: transaction.TransactionTypeIncome,
		TransactionName: "Salary",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, w.Account.Delete(ctx, acc.ID), apperr.ErrAccountInUse)

	require.NoError(t, w.Transaction.Delete(ctx, tx.ID))
	assert.NoError(t, w.Account.Delete(ctx, acc.ID))
	require.NoError(t, w.Commit())

	_, err = s.Read().Accounts.FindByID(ctx, acc.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTransactions_InsertUnknownAccount(t *testing.T) {
	s := New()
	ctx := context.Background()
	w, err := s.Write(ctx)
	require.NoError(t, err)
	defer w.Rollback()

	_, err = w.Transaction.Insert(ctx, &transaction.TransactionCreate{
		AccountID: uuid.NullUUID{UUID: uuid.Must(uuid.NewV4()), Valid: true},
		Amount:    decimal.RequireFromString("10"),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTransactions_SummarizeAccount(t *testing.T) {
	s := New()
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	acc := createAccount(t, s, ownerID, "Checking", "0")

	empty, err := s.Read().Transactions.SummarizeAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, empty.Total.IsZero(), "sum over no transactions is zero")
	assert.Equal(t, int64(0), empty.Count)

	w, err := s.Write(ctx)
	require.NoError(t, err)
	for _, amount := range []string{"5000.00", "-350.00", "-50.00"} {
		_, err := w.Transaction.Insert(ctx, &transaction.TransactionCreate{
			OwnerID:   ownerID,
			AccountID: uuid.NullUUID{UUID: acc.ID, Valid: true},
			Amount:    decimal.RequireFromString(amount),
		})
		require.NoError(t, err)
	}
	_, err = w.Transaction.Insert(ctx, &transaction.TransactionCreate{
		OwnerID: ownerID,
		Amount:  decimal.RequireFromString("999.00"),
	})
	require.NoError(t, err)
	require.NoError(t, w.Commit())

	summary, err := s.Read().Transactions.SummarizeAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("4600.00")))
	assert.Equal(t, int64(3), summary.Count)

	list, err := s.Read().Transactions.List(ctx, &transaction.TransactionFilter{AccountID: &acc.ID})
	require.NoError(t, err)
	assert.Len(t, list.Transactions, 3, "unbound transaction is excluded by the account filter")
}
