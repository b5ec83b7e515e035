package balance

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

// Report is the result of auditing one account. An inconsistent report is
// data, not an error.
type Report struct {
	AccountID         uuid.UUID
	OwnerID           uuid.UUID
	AccountName       string
	IsActive          bool
	InitialBalance    decimal.Decimal
	CurrentBalance    decimal.Decimal
	CalculatedBalance decimal.Decimal
	TotalTransactions int64
	IsConsistent      bool
	// Difference is stored minus calculated; zero when consistent.
	Difference decimal.Decimal
}

// NewReport compares the stored balance against initial + Σ amounts. Amounts
// are fixed-point decimals, so consistency is exact equality.
func NewReport(acc *account.Account, summary *transaction.AccountSummary) *Report {
	calculated := Expected(acc, summary)
	difference := acc.Balance.Sub(calculated)
	return &Report{
		AccountID:         acc.ID,
		OwnerID:           acc.OwnerID,
		AccountName:       acc.Name,
		IsActive:          acc.IsActive,
		InitialBalance:    acc.InitialBalance,
		CurrentBalance:    acc.Balance,
		CalculatedBalance: calculated,
		TotalTransactions: summary.Count,
		IsConsistent:      difference.IsZero(),
		Difference:        difference,
	}
}

// Audit recomputes the account's balance from its transactions while holding
// the account lock. It never writes.
func Audit(ctx context.Context, accounts AccountLocker, transactions Summarizer, accountID uuid.UUID) (*Report, error) {
	acc, err := accounts.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("Accounts.FindByIDForUpdate: %w", err)
	}

	summary, err := transactions.SummarizeAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("Transactions.SummarizeAccount: %w", err)
	}

	return NewReport(acc, summary), nil
}
