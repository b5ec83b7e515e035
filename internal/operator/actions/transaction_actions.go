package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/balance"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

var (
	_ IAction = (*CreateTransaction)(nil)
	_ IAction = (*UpdateTransaction)(nil)
	_ IAction = (*DeleteTransaction)(nil)
)

type CreateTransaction struct {
	Create *transaction.TransactionCreate

	Result *transaction.Transaction
}

func (c *CreateTransaction) Name() string { return "CreateTransaction" }

func (c *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := balance.NewMutator(writer.Account, writer.Transaction).Create(ctx, c.Create)
	if err != nil {
		return err
	}
	c.Result = created
	return nil
}

type UpdateTransaction struct {
	TransactionID uuid.UUID
	Update        *transaction.TransactionUpdate

	// Previous is the record as it was before the update.
	Previous *transaction.Transaction
	Result   *transaction.Transaction
}

func (u *UpdateTransaction) Name() string { return "UpdateTransaction" }

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	previous, err := writer.Transaction.FindByIDForUpdate(ctx, u.TransactionID)
	if err != nil {
		return err
	}
	updated, err := balance.NewMutator(writer.Account, writer.Transaction).Update(ctx, u.TransactionID, u.Update)
	if err != nil {
		return err
	}
	u.Previous = previous
	u.Result = updated
	return nil
}

type DeleteTransaction struct {
	TransactionID uuid.UUID

	Result *transaction.Transaction
}

func (d *DeleteTransaction) Name() string { return "DeleteTransaction" }

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	deleted, err := balance.NewMutator(writer.Account, writer.Transaction).Delete(ctx, d.TransactionID)
	if err != nil {
		return err
	}
	d.Result = deleted
	return nil
}
