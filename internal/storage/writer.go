package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

// Committer ends a unit of work.
type Committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer exposes the stores bound to one unit of work.
type Writer struct {
	tx          Committer
	Account     account.IAccountWriter
	Transaction transaction.ITransactionWriter
}

func NewWriter(tx Committer, accounts account.IAccountWriter, transactions transaction.ITransactionWriter) *Writer {
	return &Writer{
		tx:          tx,
		Account:     accounts,
		Transaction: transactions,
	}
}

func NewPostgresWriter(tx bob.Tx) *Writer {
	return NewWriter(
		postgresCommitter{tx: tx},
		account.NewWriter(tx),
		transaction.NewWriter(tx),
	)
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}

type postgresCommitter struct {
	tx bob.Tx
}

func (c postgresCommitter) Commit(ctx context.Context) error {
	return sqlconfig.ClassifyError(c.tx.Commit(ctx))
}

func (c postgresCommitter) Rollback(ctx context.Context) error {
	return c.tx.Rollback(ctx)
}
