package account

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

var _ IAccountReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) List(ctx context.Context, filter *AccountFilter) (*AccountListResult, error) {
	limit := DefaultListLimit
	offset := 0
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(sqlconfig.AccountColumns...),
		sm.From(sqlconfig.AccountsTable),
	}
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
		if filter.OwnerID != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("owner_id").EQ(psql.Arg(*filter.OwnerID))))
		}
		if !filter.IncludeInactive {
			queryMods = append(queryMods, sm.Where(psql.Quote("is_active").EQ(psql.Arg(true))))
		}
	} else {
		queryMods = append(queryMods, sm.Where(psql.Quote("is_active").EQ(psql.Arg(true))))
	}

	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("name")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
		sm.Limit(limit+1),
		sm.Offset(offset),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[accountRow]())
	if err != nil {
		return nil, sqlconfig.ClassifyError(err)
	}

	accounts := make([]*Account, len(rows))
	for i, row := range rows {
		accounts[i] = rowToAccount(row)
	}
	return Paginate(accounts, limit, offset), nil
}

// ListByOwner returns every account of the owner, active or not.
func (r *Reader) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Account, error) {
	query := psql.Select(
		sm.Columns(sqlconfig.AccountColumns...),
		sm.From(sqlconfig.AccountsTable),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.OrderBy(psql.Quote("name")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)
	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, sqlconfig.ClassifyError(err)
	}

	accounts := make([]*Account, len(rows))
	for i, row := range rows {
		accounts[i] = rowToAccount(row)
	}
	return accounts, nil
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.findByID(ctx, id, false)
}

func (r *Reader) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Account, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(sqlconfig.AccountColumns...),
		sm.From(sqlconfig.AccountsTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[accountRow]())
	if err != nil {
		err = sqlconfig.ClassifyError(err)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("account", id)
		}
		return nil, err
	}
	return rowToAccount(row), nil
}
