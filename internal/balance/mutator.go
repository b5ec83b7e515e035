package balance

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

// Mutator changes transactions and applies their balance effect in the same
// unit of work. Any error leaves the unit in a state the caller must roll back.
type Mutator struct {
	Accounts     AccountLedger
	Transactions TransactionLog
}

func NewMutator(accounts AccountLedger, transactions TransactionLog) *Mutator {
	return &Mutator{Accounts: accounts, Transactions: transactions}
}

// Create inserts the transaction and adds its amount to the bound account.
func (m *Mutator) Create(ctx context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error) {
	deltas := newDeltas()
	deltas.add(create.AccountID, create.Amount)

	locked, err := m.lock(ctx, deltas.accounts())
	if err != nil {
		return nil, err
	}

	created, err := m.Transactions.Insert(ctx, create)
	if err != nil {
		return nil, fmt.Errorf("Transactions.Insert: %w", err)
	}

	if err := m.apply(ctx, locked, deltas); err != nil {
		return nil, err
	}
	return created, nil
}

// Update reverses the stored transaction's effect, replaces its fields and
// applies the new effect. The old row is read under lock in this unit, so the
// reversal can never use a stale amount or account.
func (m *Mutator) Update(ctx context.Context, id uuid.UUID, update *transaction.TransactionUpdate) (*transaction.Transaction, error) {
	old, err := m.Transactions.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Transactions.FindByIDForUpdate: %w", err)
	}

	deltas := newDeltas()
	deltas.add(old.AccountID, old.Amount.Neg())
	deltas.add(update.AccountID, update.Amount)

	locked, err := m.lock(ctx, deltas.accounts())
	if err != nil {
		return nil, err
	}

	updated, err := m.Transactions.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("Transactions.Update: %w", err)
	}

	if err := m.apply(ctx, locked, deltas); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the transaction and subtracts its amount from the bound
// account. It returns the removed record.
func (m *Mutator) Delete(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	old, err := m.Transactions.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Transactions.FindByIDForUpdate: %w", err)
	}

	deltas := newDeltas()
	deltas.add(old.AccountID, old.Amount.Neg())

	locked, err := m.lock(ctx, deltas.accounts())
	if err != nil {
		return nil, err
	}

	if err := m.Transactions.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("Transactions.Delete: %w", err)
	}

	if err := m.apply(ctx, locked, deltas); err != nil {
		return nil, err
	}
	return old, nil
}

// lock takes the row lock of every account in ids, in ascending id order so
// two units touching the same pair of accounts cannot deadlock.
func (m *Mutator) lock(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	balances := make(map[uuid.UUID]decimal.Decimal, len(ids))
	for _, id := range ids {
		acc, err := m.Accounts.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("Accounts.FindByIDForUpdate: %w", err)
		}
		balances[id] = acc.Balance
	}
	return balances, nil
}

func (m *Mutator) apply(ctx context.Context, balances map[uuid.UUID]decimal.Decimal, d *deltas) error {
	for _, id := range d.accounts() {
		delta := d.byAccount[id]
		if delta.IsZero() {
			continue
		}
		if err := m.Accounts.UpdateBalance(ctx, id, balances[id].Add(delta)); err != nil {
			return fmt.Errorf("Accounts.UpdateBalance: %w", err)
		}
	}
	return nil
}

// deltas accumulates the net balance change per account. A transaction that
// stays on the same account nets to new - old.
type deltas struct {
	byAccount map[uuid.UUID]decimal.Decimal
}

func newDeltas() *deltas {
	return &deltas{byAccount: make(map[uuid.UUID]decimal.Decimal, 2)}
}

func (d *deltas) add(accountID uuid.NullUUID, amount decimal.Decimal) {
	if !accountID.Valid {
		return
	}
	d.byAccount[accountID.UUID] = d.byAccount[accountID.UUID].Add(amount)
}

func (d *deltas) accounts() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(d.byAccount))
	for id := range d.byAccount {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a.Bytes(), b.Bytes())
	})
	return ids
}
