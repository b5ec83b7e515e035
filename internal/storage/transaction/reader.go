package transaction

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

var _ ITransactionReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return r.findByID(ctx, id, false)
}

func (r *Reader) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(sqlconfig.TransactionColumns...),
		sm.From(sqlconfig.TransactionsTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		err = sqlconfig.ClassifyError(err)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("transaction", id)
		}
		return nil, err
	}
	return rowToTransaction(row), nil
}

// List returns a page of transactions matching the filter, newest first.
func (r *Reader) List(ctx context.Context, filter *TransactionFilter) (*TransactionListResult, error) {
	f := NormalizeFilter(filter)

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(sqlconfig.TransactionColumns...),
		sm.From(sqlconfig.TransactionsTable),
	}
	if f.OwnerID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("owner_id").EQ(psql.Arg(*f.OwnerID))))
	}
	if f.AccountID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("account_id").EQ(psql.Arg(*f.AccountID))))
	}
	if f.CategoryID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("category_id").EQ(psql.Arg(*f.CategoryID))))
	}
	if f.MaxCreationTime != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*f.MaxCreationTime))))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
		sm.Limit(f.Limit+1),
		sm.Offset(f.Offset),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, sqlconfig.ClassifyError(err)
	}

	transactions := make([]*Transaction, len(rows))
	for i, row := range rows {
		transactions[i] = rowToTransaction(row)
	}
	return Paginate(transactions, f), nil
}

// SummarizeAccount sums the amounts of every transaction bound to the account.
// An account without transactions sums to zero.
func (r *Reader) SummarizeAccount(ctx context.Context, accountID uuid.UUID) (*AccountSummary, error) {
	query := psql.Select(
		sm.Columns(
			psql.Raw("COALESCE(SUM(amount), 0) AS total"),
			psql.Raw("COUNT(*) AS count"),
		),
		sm.From(sqlconfig.TransactionsTable),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(accountID))),
	)

	row, err := bob.One(ctx, r.exec, query, scan.StructMapper[summaryRow]())
	if err != nil {
		return nil, sqlconfig.ClassifyError(err)
	}
	return &AccountSummary{Total: row.Total, Count: row.Count}, nil
}
