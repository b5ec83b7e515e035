package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

var _ ITransactionWriter = (*Writer)(nil)

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

// FindByIDForUpdate reads the transaction and holds its row lock until the
// surrounding transaction ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return w.findByID(ctx, id, true)
}

func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	txDate := create.TransactionDate
	if txDate.IsZero() {
		txDate = now
	}

	t := &Transaction{
		ID:              id,
		OwnerID:         create.OwnerID,
		AccountID:       create.AccountID,
		CategoryID:      create.CategoryID,
		Amount:          create.Amount,
		TransactionType: create.TransactionType,
		TransactionName: create.TransactionName,
		TransactionDate: txDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	query := psql.Insert(
		im.Into(sqlconfig.TransactionsTable,
			"id", "owner_id", "account_id", "category_id", "amount", "transaction_type",
			"transaction_name", "transaction_date", "created_at", "updated_at"),
		im.Values(psql.Arg(
			t.ID, t.OwnerID, t.AccountID, t.CategoryID, t.Amount, string(t.TransactionType),
			t.TransactionName, t.TransactionDate, t.CreatedAt, t.UpdatedAt,
		)),
	)
	if _, err := bob.Exec(ctx, w.tx, query); err != nil {
		return nil, sqlconfig.ClassifyError(err)
	}
	return t, nil
}

func (w *Writer) Update(ctx context.Context, id uuid.UUID, update *TransactionUpdate) (*Transaction, error) {
	t, err := w.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(t)
	t.UpdatedAt = time.Now().UTC()

	query := psql.Update(
		um.Table(sqlconfig.TransactionsTable),
		um.SetCol("account_id").ToArg(t.AccountID),
		um.SetCol("category_id").ToArg(t.CategoryID),
		um.SetCol("amount").ToArg(t.Amount),
		um.SetCol("transaction_type").ToArg(string(t.TransactionType)),
		um.SetCol("transaction_name").ToArg(t.TransactionName),
		um.SetCol("transaction_date").ToArg(t.TransactionDate),
		um.SetCol("updated_at").ToArg(t.UpdatedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	if _, err := bob.Exec(ctx, w.tx, query); err != nil {
		return nil, sqlconfig.ClassifyError(err)
	}
	return t, nil
}

func (w *Writer) Delete(ctx context.Context, id uuid.UUID) error {
	query := psql.Delete(
		dm.From(sqlconfig.TransactionsTable),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return sqlconfig.ClassifyError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("transaction", id)
	}
	return nil
}
