package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction for reporting. It never decides
// the direction of the balance change; the sign of Amount does.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a transaction record.
type Transaction struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	AccountID       uuid.NullUUID
	CategoryID      uuid.UUID
	Amount          decimal.Decimal
	TransactionType TransactionType
	TransactionName string
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	OwnerID         uuid.UUID
	AccountID       uuid.NullUUID
	CategoryID      uuid.UUID
	Amount          decimal.Decimal
	TransactionType TransactionType
	TransactionName string
	TransactionDate time.Time // defaults to now if zero
}

// TransactionUpdate replaces every mutable field of a transaction.
type TransactionUpdate struct {
	AccountID       uuid.NullUUID
	CategoryID      uuid.UUID
	Amount          decimal.Decimal
	TransactionType TransactionType
	TransactionName string
	TransactionDate time.Time // keeps the stored date if zero
}

// Apply copies the replacement fields onto t.
func (u *TransactionUpdate) Apply(t *Transaction) {
	t.AccountID = u.AccountID
	t.CategoryID = u.CategoryID
	t.Amount = u.Amount
	t.TransactionType = u.TransactionType
	t.TransactionName = u.TransactionName
	if !u.TransactionDate.IsZero() {
		t.TransactionDate = u.TransactionDate
	}
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	OwnerID         *uuid.UUID
	AccountID       *uuid.UUID
	CategoryID      *uuid.UUID
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionListResult contains a page of transactions and an optional next cursor.
type TransactionListResult struct {
	Transactions []*Transaction
	NextCursor   *TransactionCursor
}

// AccountSummary aggregates the transactions bound to one account.
type AccountSummary struct {
	Total decimal.Decimal
	Count int64
}

// ITransactionReader defines the read side of transaction storage.
type ITransactionReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, filter *TransactionFilter) (*TransactionListResult, error)
	SummarizeAccount(ctx context.Context, accountID uuid.UUID) (*AccountSummary, error)
}

// ITransactionWriter defines transaction storage operations available inside
// a unit of work.
type ITransactionWriter interface {
	ITransactionReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	Update(ctx context.Context, id uuid.UUID, update *TransactionUpdate) (*Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const DefaultListLimit = 20

// transactionRow is the scan target for the transactions table.
type transactionRow struct {
	ID              uuid.UUID       `db:"id"`
	OwnerID         uuid.UUID       `db:"owner_id"`
	AccountID       uuid.NullUUID   `db:"account_id"`
	CategoryID      uuid.UUID       `db:"category_id"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionType string          `db:"transaction_type"`
	TransactionName string          `db:"transaction_name"`
	TransactionDate time.Time       `db:"transaction_date"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func rowToTransaction(row transactionRow) *Transaction {
	return &Transaction{
		ID:              row.ID,
		OwnerID:         row.OwnerID,
		AccountID:       row.AccountID,
		CategoryID:      row.CategoryID,
		Amount:          row.Amount,
		TransactionType: TransactionType(row.TransactionType),
		TransactionName: row.TransactionName,
		TransactionDate: row.TransactionDate,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// summaryRow is the scan target for SummarizeAccount.
type summaryRow struct {
	Total decimal.Decimal `db:"total"`
	Count int64           `db:"count"`
}

// Paginate trims a limit+1 result set to limit rows and derives the next
// cursor. The first page pins MaxCreationTime to its newest row so later pages
// do not shift when new transactions arrive.
func Paginate(rows []*Transaction, filter TransactionFilter) *TransactionListResult {
	if len(rows) == 0 {
		return &TransactionListResult{}
	}

	var nextCursor *TransactionCursor
	if len(rows) > filter.Limit {
		rows = rows[:filter.Limit]

		cursorMaxCreationTime := rows[0].CreatedAt
		if filter.MaxCreationTime != nil {
			cursorMaxCreationTime = *filter.MaxCreationTime
		}

		nextCursor = &TransactionCursor{
			Position:        filter.Offset + filter.Limit,
			Limit:           filter.Limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}
	return &TransactionListResult{Transactions: rows, NextCursor: nextCursor}
}

// NormalizeFilter fills in the default limit.
func NormalizeFilter(filter *TransactionFilter) TransactionFilter {
	normalized := TransactionFilter{Limit: DefaultListLimit}
	if filter != nil {
		normalized = *filter
		if normalized.Limit <= 0 {
			normalized.Limit = DefaultListLimit
		}
	}
	return normalized
}
