package balance

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Recalculation reports the stored balance before and after a recalculation.
type Recalculation struct {
	AccountID     uuid.UUID
	OwnerID       uuid.UUID
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	// Correction is after minus before: the amount added to the stored balance.
	Correction    decimal.Decimal
	Corrected     bool
}

// Recalculate overwrites the stored balance with initial + Σ amounts. It
// writes even when nothing changes; running it twice reports Corrected=false
// the second time.
func Recalculate(ctx context.Context, accounts AccountLedger, transactions Summarizer, accountID uuid.UUID) (*Recalculation, error) {
	report, err := Audit(ctx, accounts, transactions, accountID)
	if err != nil {
		return nil, err
	}

	if err := accounts.UpdateBalance(ctx, accountID, report.CalculatedBalance); err != nil {
		return nil, fmt.Errorf("Accounts.UpdateBalance: %w", err)
	}

	return &Recalculation{
		AccountID:     accountID,
		OwnerID:       report.OwnerID,
		BalanceBefore: report.CurrentBalance,
		BalanceAfter:  report.CalculatedBalance,
		Correction:    report.CalculatedBalance.Sub(report.CurrentBalance),
		Corrected:     !report.CurrentBalance.Equal(report.CalculatedBalance),
	}, nil
}
