package operator

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/memory"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func startDelegator(t *testing.T, s storage.Storage, workers int) *OperatorDelegator {
	t.Helper()
	d := NewOperatorDelegator(s, workers, testLogger())
	d.Start()
	t.Cleanup(d.Stop)
	return d
}

func createAccount(t *testing.T, d *OperatorDelegator, initial string) *account.Account {
	t.Helper()
	action := &actions.CreateAccount{Create: &account.AccountCreate{
		OwnerID:        uuid.Must(uuid.NewV4()),
		Name:           "Checking",
		InitialBalance: decimal.RequireFromString(initial),
	}}
	require.NoError(t, d.Process(context.Background(), action))
	return action.Result
}

type failingAction struct {
	accountID uuid.UUID
}

func (f *failingAction) Name() string { return "failingAction" }

func (f *failingAction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := writer.Account.UpdateBalance(ctx, f.accountID, decimal.NewFromInt(-1)); err != nil {
		return err
	}
	return errors.New("boom")
}

// gatedAction holds its unit open after the wrapped action has performed
// until release is closed.
type gatedAction struct {
	actions.IAction
	started chan struct{}
	release chan struct{}
}

func newGatedAction(inner actions.IAction) *gatedAction {
	return &gatedAction{IAction: inner, started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedAction) Perform(ctx context.Context, writer *storage.Writer) error {
	err := g.IAction.Perform(ctx, writer)
	close(g.started)
	<-g.release
	return err
}

func expense(acc *account.Account, amount string) *actions.CreateTransaction {
	return &actions.CreateTransaction{Create: &transaction.TransactionCreate{
		OwnerID:         acc.OwnerID,
		AccountID:       uuid.NullUUID{UUID: acc.ID, Valid: true},
		CategoryID:      uuid.Must(uuid.NewV4()),
		Amount:          decimal.RequireFromString(amount),
		TransactionType: transaction.TransactionTypeExpense,
		TransactionName: "expense",
	}}
}

func storedBalance(t *testing.T, s storage.Storage, id uuid.UUID) decimal.Decimal {
	t.Helper()
	acc, err := s.Read().Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func TestProcess_CancelAfterPerformReportsCommit(t *testing.T) {
	s := memory.New()
	d := startDelegator(t, s, 1)
	acc := createAccount(t, d, "100")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	action := newGatedAction(expense(acc, "-10"))

	done := make(chan error, 1)
	go func() { done <- d.Process(ctx, action) }()

	<-action.started
	cancel()
	select {
	case err := <-done:
		t.Fatalf("Process returned before the unit finished: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(action.release)

	require.NoError(t, <-done, "the unit committed, so the caller must see success")
	assert.True(t, decimal.NewFromInt(90).Equal(storedBalance(t, s, acc.ID)))
}

func TestProcess_CancelWhileQueuedLeavesNoChange(t *testing.T) {
	s := memory.New()
	d := startDelegator(t, s, 1)
	acc := createAccount(t, d, "100")

	blocker := newGatedAction(expense(acc, "-1"))
	blockerDone := make(chan error, 1)
	go func() { blockerDone <- d.Process(context.Background(), blocker) }()
	<-blocker.started

	ctx, cancel := context.WithCancel(context.Background())
	queuedDone := make(chan error, 1)
	go func() { queuedDone <- d.Process(ctx, expense(acc, "-10")) }()
	time.Sleep(20 * time.Millisecond)
	cancel()
	close(blocker.release)

	require.NoError(t, <-blockerDone)
	assert.ErrorIs(t, <-queuedDone, context.Canceled)
	assert.True(t, decimal.NewFromInt(99).Equal(storedBalance(t, s, acc.ID)), "only the first unit may have been applied")
}

func TestProcess_ConcurrentMixedMutationsStayConsistent(t *testing.T) {
	s := memory.New()
	d := startDelegator(t, s, 4)
	a := createAccount(t, d, "1000")
	b := createAccount(t, d, "500")
	other := func(i int) *account.Account {
		if i%2 == 0 {
			return b
		}
		return a
	}
	home := func(i int) *account.Account {
		if i%2 == 0 {
			return a
		}
		return b
	}

	const n = 30
	seeded := make([]*transaction.Transaction, n)
	for i := range seeded {
		create := expense(home(i), "10")
		require.NoError(t, d.Process(context.Background(), create))
		seeded[i] = create.Result
	}

	var wg sync.WaitGroup
	errs := make(chan error, n*4)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx := seeded[i]
			amount := decimal.NewFromInt(int64(i + 1))
			replace := func(acc *account.Account) *actions.UpdateTransaction {
				return &actions.UpdateTransaction{TransactionID: tx.ID, Update: &transaction.TransactionUpdate{
					AccountID:       uuid.NullUUID{UUID: acc.ID, Valid: true},
					CategoryID:      tx.CategoryID,
					Amount:          amount,
					TransactionType: transaction.TransactionTypeIncome,
					TransactionName: "moved",
				}}
			}

			errs <- d.Process(context.Background(), replace(home(i)))
			errs <- d.Process(context.Background(), replace(other(i)))
			if i%3 == 0 {
				errs <- d.Process(context.Background(), &actions.DeleteTransaction{TransactionID: tx.ID})
			}
			errs <- d.Process(context.Background(), expense(a, "1"))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	want := map[uuid.UUID]decimal.Decimal{
		a.ID: decimal.NewFromInt(1000 + n),
		b.ID: decimal.NewFromInt(500),
	}
	for i := 0; i < n; i++ {
		if i%3 != 0 {
			id := other(i).ID
			want[id] = want[id].Add(decimal.NewFromInt(int64(i + 1)))
		}
	}

	for _, acc := range []*account.Account{a, b} {
		audit := &actions.AuditAccount{AccountID: acc.ID}
		require.NoError(t, d.Process(context.Background(), audit))
		assert.True(t, audit.Result.IsConsistent, "%s drifted by %s", acc.ID, audit.Result.Difference)
		assert.True(t, want[acc.ID].Equal(audit.Result.CurrentBalance), "%s: want %s got %s", acc.ID, want[acc.ID], audit.Result.CurrentBalance)
	}
}

func TestProcess_ConcurrentCreatesKeepBalanceExact(t *testing.T) {
	s := memory.New()
	d := startDelegator(t, s, 4)
	acc := createAccount(t, d, "100.00")

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- d.Process(context.Background(), &actions.CreateTransaction{Create: &transaction.TransactionCreate{
				OwnerID:         acc.OwnerID,
				AccountID:       uuid.NullUUID{UUID: acc.ID, Valid: true},
				CategoryID:      uuid.Must(uuid.NewV4()),
				Amount:          decimal.RequireFromString("10.01"),
				TransactionType: transaction.TransactionTypeIncome,
				TransactionName: "deposit",
			}})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := s.Read().Accounts.FindByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("600.50").Equal(stored.Balance), "got %s", stored.Balance)

	audit := &actions.AuditAccount{AccountID: acc.ID}
	require.NoError(t, d.Process(context.Background(), audit))
	assert.True(t, audit.Result.IsConsistent)
	assert.Equal(t, int64(50), audit.Result.TotalTransactions)
}

func TestProcess_RollsBackOnError(t *testing.T) {
	s := memory.New()
	d := startDelegator(t, s, 1)
	acc := createAccount(t, d, "100")

	err := d.Process(context.Background(), &failingAction{accountID: acc.ID})
	assert.EqualError(t, err, "boom")

	stored, err := s.Read().Accounts.FindByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(stored.Balance))

	// the unit was released; later actions still run
	createAccount(t, d, "1")
}

func TestProcess_CancelledContext(t *testing.T) {
	d := startDelegator(t, memory.New(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Process(ctx, &actions.CreateAccount{Create: &account.AccountCreate{Name: "never"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcess_AfterStop(t *testing.T) {
	d := NewOperatorDelegator(memory.New(), 2, testLogger())
	d.Start()
	d.Stop()
	d.Stop()

	err := d.Process(context.Background(), &actions.CreateAccount{Create: &account.AccountCreate{Name: "late"}})
	assert.ErrorIs(t, err, ErrStopped)
}
