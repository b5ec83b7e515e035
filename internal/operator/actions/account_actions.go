package actions

import (
	"context"
	"fmt"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/balance"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/account"
)

var (
	_ IAction = (*CreateAccount)(nil)
	_ IAction = (*UpdateAccount)(nil)
	_ IAction = (*DeleteAccount)(nil)
	_ IAction = (*AuditAccount)(nil)
	_ IAction = (*RecalculateAccount)(nil)
)

type CreateAccount struct {
	Create *account.AccountCreate

	Result *account.Account
}

func (c *CreateAccount) Name() string { return "CreateAccount" }

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := writer.Account.Create(ctx, c.Create)
	if err != nil {
		return fmt.Errorf("Account.Create: %w", err)
	}
	c.Result = created
	return nil
}

type UpdateAccount struct {
	AccountID uuid.UUID
	Update    *account.AccountUpdate

	Result *account.Account
}

func (u *UpdateAccount) Name() string { return "UpdateAccount" }

func (u *UpdateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := writer.Account.FindByIDForUpdate(ctx, u.AccountID); err != nil {
		return fmt.Errorf("Account.FindByIDForUpdate: %w", err)
	}
	updated, err := writer.Account.Update(ctx, u.AccountID, u.Update)
	if err != nil {
		return fmt.Errorf("Account.Update: %w", err)
	}
	u.Result = updated
	return nil
}

// DeleteAccount deactivates the account, or removes it when Hard is set.
// Removal fails with ErrAccountInUse while transactions reference it.
type DeleteAccount struct {
	AccountID uuid.UUID
	Hard      bool

	Result *account.Account
}

func (d *DeleteAccount) Name() string { return "DeleteAccount" }

func (d *DeleteAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := writer.Account.FindByIDForUpdate(ctx, d.AccountID)
	if err != nil {
		return fmt.Errorf("Account.FindByIDForUpdate: %w", err)
	}

	if d.Hard {
		if err := writer.Account.Delete(ctx, d.AccountID); err != nil {
			return fmt.Errorf("Account.Delete: %w", err)
		}
		d.Result = acc
		return nil
	}

	updated, err := writer.Account.Update(ctx, d.AccountID, &account.AccountUpdate{IsActive: omit.From(false)})
	if err != nil {
		return fmt.Errorf("Account.Update: %w", err)
	}
	d.Result = updated
	return nil
}

// AuditAccount never writes; it runs as a unit so the account lock is held
// while the transactions are summed.
type AuditAccount struct {
	AccountID uuid.UUID

	Result *balance.Report
}

func (a *AuditAccount) Name() string { return "AuditAccount" }

func (a *AuditAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	report, err := balance.Audit(ctx, writer.Account, writer.Transaction, a.AccountID)
	if err != nil {
		return err
	}
	a.Result = report
	return nil
}

type RecalculateAccount struct {
	AccountID uuid.UUID

	Result *balance.Recalculation
}

func (r *RecalculateAccount) Name() string { return "RecalculateAccount" }

func (r *RecalculateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	result, err := balance.Recalculate(ctx, writer.Account, writer.Transaction, r.AccountID)
	if err != nil {
		return err
	}
	r.Result = result
	return nil
}
