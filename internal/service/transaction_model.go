package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a transaction in the service layer. A nil AccountID
// means the transaction is not bound to any account.
type Transaction struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	AccountID       *uuid.UUID
	CategoryID      uuid.UUID
	Amount          decimal.Decimal
	TransactionType TransactionType
	TransactionName string
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TransactionInput is both the create input and the full replacement used by
// updates. OwnerID is ignored on update.
type TransactionInput struct {
	OwnerID         uuid.UUID
	AccountID       *uuid.UUID
	CategoryID      uuid.UUID
	Amount          decimal.Decimal
	TransactionType TransactionType
	TransactionName string
	TransactionDate time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionQuery narrows a listing. Zero values mean no filter.
type TransactionQuery struct {
	OwnerID   *uuid.UUID
	AccountID *uuid.UUID
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func transactionFromStorage(t *transaction.Transaction) *Transaction {
	var accountID *uuid.UUID
	if t.AccountID.Valid {
		id := t.AccountID.UUID
		accountID = &id
	}
	return &Transaction{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		AccountID:       accountID,
		CategoryID:      t.CategoryID,
		Amount:          t.Amount,
		TransactionType: TransactionType(t.TransactionType),
		TransactionName: t.TransactionName,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (in TransactionInput) toCreate() *transaction.TransactionCreate {
	return &transaction.TransactionCreate{
		OwnerID:         in.OwnerID,
		AccountID:       nullUUID(in.AccountID),
		CategoryID:      in.CategoryID,
		Amount:          in.Amount,
		TransactionType: transaction.TransactionType(in.TransactionType),
		TransactionName: in.TransactionName,
		TransactionDate: in.TransactionDate,
	}
}

func (in TransactionInput) toUpdate() *transaction.TransactionUpdate {
	return &transaction.TransactionUpdate{
		AccountID:       nullUUID(in.AccountID),
		CategoryID:      in.CategoryID,
		Amount:          in.Amount,
		TransactionType: transaction.TransactionType(in.TransactionType),
		TransactionName: in.TransactionName,
		TransactionDate: in.TransactionDate,
	}
}
