package service

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/balance"
	"github.com/carson-networks/finance-server/internal/storage/account"
)

// AccountType represents an account type in the service layer.
type AccountType int8

const (
	AccountTypeCash AccountType = iota
	AccountTypeCreditCards
	AccountTypeInvestments
	AccountTypeLoans
	AccountTypeAssets
)

// Account represents an account in the service layer.
type Account struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Type           AccountType
	SubType        string
	Currency       string
	InitialBalance decimal.Decimal
	Balance        decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountCreate is the input for opening an account.
type AccountCreate struct {
	OwnerID        uuid.UUID
	Name           string
	Type           AccountType
	SubType        string
	Currency       string
	InitialBalance decimal.Decimal
}

// AccountUpdate carries the fields an owner may change; balances are not
// among them.
type AccountUpdate struct {
	Name     omit.Val[string]
	Type     omit.Val[AccountType]
	SubType  omit.Val[string]
	Currency omit.Val[string]
	IsActive omit.Val[bool]
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// AuditReport compares an account's stored balance with the balance
// recomputed from its transactions.
type AuditReport struct {
	AccountID         uuid.UUID
	AccountName       string
	IsActive          bool
	InitialBalance    decimal.Decimal
	CurrentBalance    decimal.Decimal
	CalculatedBalance decimal.Decimal
	TotalTransactions int64
	IsConsistent      bool
	Difference        decimal.Decimal
}

type Recalculation struct {
	AccountID     uuid.UUID
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Correction    decimal.Decimal
	Corrected     bool
}

func accountTypeToStorage(t AccountType) account.AccountType {
	return account.AccountType(t)
}

func accountTypeFromStorage(t account.AccountType) AccountType {
	return AccountType(t)
}

func accountFromStorage(a *account.Account) *Account {
	return &Account{
		ID:             a.ID,
		OwnerID:        a.OwnerID,
		Name:           a.Name,
		Type:           accountTypeFromStorage(a.Type),
		SubType:        a.SubType,
		Currency:       a.Currency,
		InitialBalance: a.InitialBalance,
		Balance:        a.Balance,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (u AccountUpdate) toStorage() *account.AccountUpdate {
	update := &account.AccountUpdate{
		Name:     u.Name,
		SubType:  u.SubType,
		Currency: u.Currency,
		IsActive: u.IsActive,
	}
	if t, ok := u.Type.Get(); ok {
		update.Type = omit.From(accountTypeToStorage(t))
	}
	return update
}

func auditReportFromBalance(r *balance.Report) AuditReport {
	return AuditReport{
		AccountID:         r.AccountID,
		AccountName:       r.AccountName,
		IsActive:          r.IsActive,
		InitialBalance:    r.InitialBalance,
		CurrentBalance:    r.CurrentBalance,
		CalculatedBalance: r.CalculatedBalance,
		TotalTransactions: r.TotalTransactions,
		IsConsistent:      r.IsConsistent,
		Difference:        r.Difference,
	}
}

func recalculationFromBalance(r *balance.Recalculation) *Recalculation {
	return &Recalculation{
		AccountID:     r.AccountID,
		BalanceBefore: r.BalanceBefore,
		BalanceAfter:  r.BalanceAfter,
		Correction:    r.Correction,
		Corrected:     r.Corrected,
	}
}
