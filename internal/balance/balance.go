// Package balance keeps every account's stored balance equal to its initial
// balance plus the sum of the transactions bound to it.
//
// The Mutator applies the minimal delta on each transaction change. Audit
// recomputes the balance from the transaction log without trusting the stored
// value, and Recalculate writes the recomputed value back. All of them run
// inside a single storage unit of work supplied by the caller.
package balance

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

// AccountLedger is the account side of a unit of work.
type AccountLedger interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

// TransactionLog is the transaction side of a unit of work.
type TransactionLog interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	Insert(ctx context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error)
	Update(ctx context.Context, id uuid.UUID, update *transaction.TransactionUpdate) (*transaction.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Summarizer aggregates the transactions bound to an account.
type Summarizer interface {
	SummarizeAccount(ctx context.Context, accountID uuid.UUID) (*transaction.AccountSummary, error)
}

// AccountLocker loads an account and holds it against concurrent mutation.
type AccountLocker interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// Expected returns initial + total, the balance an account must hold.
func Expected(acc *account.Account, summary *transaction.AccountSummary) decimal.Decimal {
	return acc.InitialBalance.Add(summary.Total)
}
