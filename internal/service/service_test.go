package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/storage/memory"
)

// recordingPublisher keeps every event it is given.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []*events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*events.Event(nil), p.events...)
}

type testEnv struct {
	store     *memory.Storage
	publisher *recordingPublisher
	svc       *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	log := logrus.NewEntry(logger)

	store := memory.New()
	op := operator.NewOperatorDelegator(store, 4, log)
	op.Start()
	t.Cleanup(op.Stop)

	publisher := &recordingPublisher{}
	return &testEnv{
		store:     store,
		publisher: publisher,
		svc: NewService(Options{
			Storage:          store,
			Operator:         op,
			Publisher:        publisher,
			Log:              log,
			AuditConcurrency: 3,
		}),
	}
}

func (e *testEnv) openAccount(t *testing.T, ownerID uuid.UUID, name, initial string) *Account {
	t.Helper()
	acc, err := e.svc.Account.CreateAccount(context.Background(), AccountCreate{
		OwnerID:        ownerID,
		Name:           name,
		Type:           AccountTypeCash,
		InitialBalance: decimal.RequireFromString(initial),
	})
	require.NoError(t, err)
	return acc
}

func (e *testEnv) record(t *testing.T, ownerID, accountID uuid.UUID, amount string) *Transaction {
	t.Helper()
	txType := TransactionTypeIncome
	if decimal.RequireFromString(amount).IsNegative() {
		txType = TransactionTypeExpense
	}
	tx, err := e.svc.Transaction.CreateTransaction(context.Background(), TransactionInput{
		OwnerID:         ownerID,
		AccountID:       &accountID,
		CategoryID:      uuid.Must(uuid.NewV4()),
		Amount:          decimal.RequireFromString(amount),
		TransactionType: txType,
		TransactionName: "entry " + amount,
	})
	require.NoError(t, err)
	return tx
}

// induceDrift writes a balance directly, bypassing the mutator.
func (e *testEnv) induceDrift(t *testing.T, accountID uuid.UUID, balance string) {
	t.Helper()
	w, err := e.store.Write(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.Account.UpdateBalance(context.Background(), accountID, decimal.RequireFromString(balance)))
	require.NoError(t, w.Commit())
}
