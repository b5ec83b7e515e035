package account

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

var _ IAccountWriter = (*Writer)(nil)

type Writer struct {
	tx bob.Executor
	Reader
}

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// FindByIDForUpdate reads the account and holds its row lock until the
// surrounding transaction ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error) {
	return w.findByID(ctx, id, true)
}

func (w *Writer) Create(ctx context.Context, create *AccountCreate) (*Account, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	currency := strings.TrimSpace(create.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	now := time.Now().UTC()

	acc := &Account{
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

	query := psql.Insert(
		im.Into(sqlconfig.AccountsTable,
			"id", "owner_id", "name", "type", "sub_type", "currency",
			"initial_balance", "balance", "is_active", "created_at", "updated_at"),
		im.Values(psql.Arg(
			acc.ID, acc.OwnerID, acc.Name, int16(acc.Type), acc.SubType, acc.Currency,
			acc.InitialBalance, acc.Balance, acc.IsActive, acc.CreatedAt, acc.UpdatedAt,
		)),
	)
	if _, err := bob.Exec(ctx, w.tx, query); err != nil {
		return nil, sqlconfig.ClassifyError(err)
	}
	return acc, nil
}

// Update writes the non-financial fields set in update.
func (w *Writer) Update(ctx context.Context, id uuid.UUID, update *AccountUpdate) (*Account, error) {
	acc, err := w.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(acc)
	acc.UpdatedAt = time.Now().UTC()

	query := psql.Update(
		um.Table(sqlconfig.AccountsTable),
		um.SetCol("name").ToArg(acc.Name),
		um.SetCol("type").ToArg(int16(acc.Type)),
		um.SetCol("sub_type").ToArg(acc.SubType),
		um.SetCol("currency").ToArg(acc.Currency),
		um.SetCol("is_active").ToArg(acc.IsActive),
		um.SetCol("updated_at").ToArg(acc.UpdatedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	if _, err := bob.Exec(ctx, w.tx, query); err != nil {
		return nil, sqlconfig.ClassifyError(err)
	}
	return acc, nil
}

func (w *Writer) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	query := psql.Update(
		um.Table(sqlconfig.AccountsTable),
		um.SetCol("balance").ToArg(balance),
		um.SetCol("updated_at").ToArg(time.Now().UTC()),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return w.execOne(ctx, query, id)
}

// Delete removes the account row. Referencing transactions make it fail with
// apperr.ErrAccountInUse.
func (w *Writer) Delete(ctx context.Context, id uuid.UUID) error {
	query := psql.Delete(
		dm.From(sqlconfig.AccountsTable),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return w.execOne(ctx, query, id)
}

func (w *Writer) execOne(ctx context.Context, query bob.Query, id uuid.UUID) error {
	result, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return sqlconfig.ClassifyError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("account", id)
	}
	return nil
}
