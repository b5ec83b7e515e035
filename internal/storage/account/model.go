package account

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Account represents an account record.
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

// AccountFilter specifies filters for listing accounts.
type AccountFilter struct {
	OwnerID         *uuid.UUID
	IncludeInactive bool
	Limit           int
	Offset          int
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// AccountListResult contains a page of accounts and an optional next cursor.
type AccountListResult struct {
	Accounts   []*Account
	NextCursor *AccountCursor
}

// AccountCreate is the input for creating a new account. The balance starts
// equal to InitialBalance.
type AccountCreate struct {
	OwnerID        uuid.UUID
	Name           string
	Type           AccountType
	SubType        string
	Currency       string
	InitialBalance decimal.Decimal
}

// AccountUpdate carries the non-financial fields an owner may change. Unset
// fields are left untouched.
type AccountUpdate struct {
	Name     omit.Val[string]
	Type     omit.Val[AccountType]
	SubType  omit.Val[string]
	Currency omit.Val[string]
	IsActive omit.Val[bool]
}

// Apply copies the set fields of u onto a.
func (u *AccountUpdate) Apply(a *Account) {
	if v, ok := u.Name.Get(); ok {
		a.Name = v
	}
	if v, ok := u.Type.Get(); ok {
		a.Type = v
	}
	if v, ok := u.SubType.Get(); ok {
		a.SubType = v
	}
	if v, ok := u.Currency.Get(); ok {
		a.Currency = v
	}
	if v, ok := u.IsActive.Get(); ok {
		a.IsActive = v
	}
}

// IAccountReader defines the read side of account storage.
type IAccountReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	List(ctx context.Context, filter *AccountFilter) (*AccountListResult, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Account, error)
}

// IAccountWriter defines account storage operations available inside a unit
// of work. Balance is only ever written through UpdateBalance.
type IAccountWriter interface {
	IAccountReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	Create(ctx context.Context, create *AccountCreate) (*Account, error)
	Update(ctx context.Context, id uuid.UUID, update *AccountUpdate) (*Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AccountType int8

const (
	AccountTypeCash AccountType = iota
	AccountTypeCreditCards
	AccountTypeInvestments
	AccountTypeLoans
	AccountTypeAssets
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t >= AccountTypeCash && t <= AccountTypeAssets
}

const (
	DefaultListLimit = 20
	DefaultCurrency  = "BRL"
)

// accountRow is the scan target for the accounts table.
type accountRow struct {
	ID             uuid.UUID       `db:"id"`
	OwnerID        uuid.UUID       `db:"owner_id"`
	Name           string          `db:"name"`
	Type           int16           `db:"type"`
	SubType        string          `db:"sub_type"`
	Currency       string          `db:"currency"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
	Balance        decimal.Decimal `db:"balance"`
	IsActive       bool            `db:"is_active"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func rowToAccount(row accountRow) *Account {
	return &Account{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Name:           row.Name,
		Type:           AccountType(row.Type),
		SubType:        row.SubType,
		Currency:       row.Currency,
		InitialBalance: row.InitialBalance,
		Balance:        row.Balance,
		IsActive:       row.IsActive,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

// Paginate trims a limit+1 result set to limit rows and derives the next cursor.
func Paginate(rows []*Account, limit, offset int) *AccountListResult {
	if len(rows) == 0 {
		return &AccountListResult{}
	}

	var nextCursor *AccountCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}
	return &AccountListResult{Accounts: rows, NextCursor: nextCursor}
}
