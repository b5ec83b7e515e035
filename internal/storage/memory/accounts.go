package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/storage/account"
)

type accountReader struct {
	v view
}

func (r *accountReader) FindByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	var (
		acc   account.Account
		found bool
	)
	r.v.with(func(st *state) {
		acc, found = st.accounts[id]
	})
	if !found {
		return nil, apperr.NotFound("account", id)
	}
	return &acc, nil
}

func (r *accountReader) List(_ context.Context, filter *account.AccountFilter) (*account.AccountListResult, error) {
	f := account.AccountFilter{Limit: account.DefaultListLimit}
	if filter != nil {
		f = *filter
		if f.Limit <= 0 {
			f.Limit = account.DefaultListLimit
		}
	}

	matches := r.collect(func(a *account.Account) bool {
		if f.OwnerID != nil && a.OwnerID != *f.OwnerID {
			return false
		}
		return f.IncludeInactive || a.IsActive
	})

	if f.Offset >= len(matches) {
		return account.Paginate(nil, f.Limit, f.Offset), nil
	}
	matches = matches[f.Offset:]
	if len(matches) > f.Limit+1 {
		matches = matches[:f.Limit+1]
	}
	return account.Paginate(matches, f.Limit, f.Offset), nil
}

func (r *accountReader) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*account.Account, error) {
	return r.collect(func(a *account.Account) bool {
		return a.OwnerID == ownerID
	}), nil
}

// collect returns copies of the matching accounts ordered by name, then id.
func (r *accountReader) collect(match func(a *account.Account) bool) []*account.Account {
	var out []*account.Account
	r.v.with(func(st *state) {
		for _, a := range st.accounts {
			acc := a
			if match(&acc) {
				out = append(out, &acc)
			}
		}
	})
	slices.SortFunc(out, func(a, b *account.Account) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

type accountWriter struct {
	accountReader
	st *state
}

func (w *accountWriter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return w.FindByID(ctx, id)
}

func (w *accountWriter) Create(_ context.Context, create *account.AccountCreate) (*account.Account, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	currency := strings.TrimSpace(create.Currency)
	if currency == "" {
		currency = account.DefaultCurrency
	}
	now := time.Now().UTC()

	acc := account.Account{
		ID:             id,
		OwnerID:        create.OwnerID,
		Name:           create.Name,
		Type:           create.Type,
		SubType:        create.SubType,
		Currency:       currency,
		InitialBalance: create.InitialBalance,
		Balance:        create.InitialBalance,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	w.st.accounts[id] = acc
	return &acc, nil
}

func (w *accountWriter) Update(_ context.Context, id uuid.UUID, update *account.AccountUpdate) (*account.Account, error) {
	acc, ok := w.st.accounts[id]
	if !ok {
		return nil, apperr.NotFound("account", id)
	}
	update.Apply(&acc)
	acc.UpdatedAt = time.Now().UTC()
	w.st.accounts[id] = acc
	return &acc, nil
}

func (w *accountWriter) UpdateBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	acc, ok := w.st.accounts[id]
	if !ok {
		return apperr.NotFound("account", id)
	}
	acc.Balance = balance
	acc.UpdatedAt = time.Now().UTC()
	w.st.accounts[id] = acc
	return nil
}

func (w *accountWriter) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := w.st.accounts[id]; !ok {
		return apperr.NotFound("account", id)
	}
	for _, t := range w.st.transactions {
		if t.AccountID.Valid && t.AccountID.UUID == id {
			return apperr.ErrAccountInUse
		}
	}
	delete(w.st.accounts, id)
	return nil
}
