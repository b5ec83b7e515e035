package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

type transactionReader struct {
	v view
}

func (r *transactionReader) FindByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var (
		t     transaction.Transaction
		found bool
	)
	r.v.with(func(st *state) {
		t, found = st.transactions[id]
	})
	if !found {
		return nil, apperr.NotFound("transaction", id)
	}
	return &t, nil
}

func (r *transactionReader) List(_ context.Context, filter *transaction.TransactionFilter) (*transaction.TransactionListResult, error) {
	f := transaction.NormalizeFilter(filter)

	var matches []*transaction.Transaction
	r.v.with(func(st *state) {
		for _, t := range st.transactions {
			if f.OwnerID != nil && t.OwnerID != *f.OwnerID {
				continue
			}
			if f.AccountID != nil && (!t.AccountID.Valid || t.AccountID.UUID != *f.AccountID) {
				continue
			}
			if f.CategoryID != nil && t.CategoryID != *f.CategoryID {
				continue
			}
			if f.MaxCreationTime != nil && t.CreatedAt.After(*f.MaxCreationTime) {
				continue
			}
			tx := t
			matches = append(matches, &tx)
		}
	})
	slices.SortFunc(matches, func(a, b *transaction.Transaction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})

	if f.Offset >= len(matches) {
		return transaction.Paginate(nil, f), nil
	}
	matches = matches[f.Offset:]
	if len(matches) > f.Limit+1 {
		matches = matches[:f.Limit+1]
	}
	return transaction.Paginate(matches, f), nil
}

func (r *transactionReader) SummarizeAccount(_ context.Context, accountID uuid.UUID) (*transaction.AccountSummary, error) {
	summary := &transaction.AccountSummary{Total: decimal.Zero}
	r.v.with(func(st *state) {
		for _, t := range st.transactions {
			if t.AccountID.Valid && t.AccountID.UUID == accountID {
				summary.Total = summary.Total.Add(t.Amount)
				summary.Count++
			}
		}
	})
	return summary, nil
}

type transactionWriter struct {
	transactionReader
	st *state
}

func (w *transactionWriter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return w.FindByID(ctx, id)
}

func (w *transactionWriter) Insert(_ context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	if err := w.checkAccount(create.AccountID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	txDate := create.TransactionDate
	if txDate.IsZero() {
		txDate = now
	}

	t := transaction.Transaction{
		ID:              id,
		OwnerID:         create.OwnerID,
		AccountID:       create.AccountID,
		CategoryID:      create.CategoryID,
		Amount:          create.Amount,
		TransactionType: create.TransactionType,
		TransactionName: create.TransactionName,
		TransactionDate: txDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	w.st.transactions[id] = t
	return &t, nil
}

func (w *transactionWriter) Update(_ context.Context, id uuid.UUID, update *transaction.TransactionUpdate) (*transaction.Transaction, error) {
	t, ok := w.st.transactions[id]
	if !ok {
		return nil, apperr.NotFound("transaction", id)
	}
	if err := w.checkAccount(update.AccountID); err != nil {
		return nil, err
	}
	update.Apply(&t)
	t.UpdatedAt = time.Now().UTC()
	w.st.transactions[id] = t
	return &t, nil
}

func (w *transactionWriter) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := w.st.transactions[id]; !ok {
		return apperr.NotFound("transaction", id)
	}
	delete(w.st.transactions, id)
	return nil
}

// checkAccount mirrors the foreign key from transactions to accounts.
func (w *transactionWriter) checkAccount(accountID uuid.NullUUID) error {
	if !accountID.Valid {
		return nil
	}
	if _, ok := w.st.accounts[accountID.UUID]; !ok {
		return apperr.NotFound("account", accountID.UUID)
	}
	return nil
}
