package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/account"
)

const defaultAccountLimit = account.DefaultListLimit

// AccountService handles account business logic.
type AccountService struct {
	storage          storage.Storage
	operator         operator.IOperator
	publisher        events.Publisher
	log              *logrus.Entry
	auditConcurrency int
}

// NewAccountService creates a new AccountService.
func NewAccountService(store storage.Storage, op operator.IOperator, publisher events.Publisher, log *logrus.Entry, auditConcurrency int) *AccountService {
	if auditConcurrency < 1 {
		auditConcurrency = 1
	}
	return &AccountService{
		storage:          store,
		operator:         op,
		publisher:        publisher,
		log:              log.WithField("service", "account"),
		auditConcurrency: auditConcurrency,
	}
}

// CreateAccount opens an account whose balance starts at its initial balance.
func (s *AccountService) CreateAccount(ctx context.Context, create AccountCreate) (*Account, error) {
	name := strings.TrimSpace(create.Name)
	if name == "" {
		return nil, apperr.Invalid("account name is required")
	}
	if !accountTypeToStorage(create.Type).Valid() {
		return nil, apperr.Invalid("unknown account type %d", create.Type)
	}
	if err := checkScale("initial balance", create.InitialBalance); err != nil {
		return nil, err
	}

	action := &actions.CreateAccount{Create: &account.AccountCreate{
		OwnerID:        create.OwnerID,
		Name:           name,
		Type:           accountTypeToStorage(create.Type),
		SubType:        create.SubType,
		Currency:       strings.ToUpper(strings.TrimSpace(create.Currency)),
		InitialBalance: create.InitialBalance,
	}}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return accountFromStorage(action.Result), nil
}

// GetAccount retrieves an account by ID, active or not.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	row, err := s.storage.Read().Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return accountFromStorage(row), nil
}

// ListAccounts returns a page of the owner's accounts using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, ownerID uuid.UUID, includeInactive bool, cursor *AccountCursor) ([]Account, *AccountCursor, error) {
	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
	}

	result, err := s.storage.Read().Accounts.List(ctx, &account.AccountFilter{
		OwnerID:         &ownerID,
		IncludeInactive: includeInactive,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(result.Accounts) == 0 {
		return nil, nil, nil
	}

	var nextCursor *AccountCursor
	if result.NextCursor != nil {
		nextCursor = &AccountCursor{
			Position: result.NextCursor.Position,
			Limit:    result.NextCursor.Limit,
		}
	}

	convertedAccounts := make([]Account, len(result.Accounts))
	for i, row := range result.Accounts {
		convertedAccounts[i] = *accountFromStorage(row)
	}

	return convertedAccounts, nextCursor, nil
}

// UpdateAccount changes non-financial fields. Setting IsActive reactivates or
// deactivates the account.
func (s *AccountService) UpdateAccount(ctx context.Context, id uuid.UUID, update AccountUpdate) (*Account, error) {
	if name, ok := update.Name.Get(); ok {
		if strings.TrimSpace(name) == "" {
			return nil, apperr.Invalid("account name cannot be empty")
		}
		update.Name.Set(strings.TrimSpace(name))
	}
	if t, ok := update.Type.Get(); ok && !accountTypeToStorage(t).Valid() {
		return nil, apperr.Invalid("unknown account type %d", t)
	}
	if currency, ok := update.Currency.Get(); ok {
		update.Currency.Set(strings.ToUpper(strings.TrimSpace(currency)))
	}

	action := &actions.UpdateAccount{AccountID: id, Update: update.toStorage()}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return accountFromStorage(action.Result), nil
}

// DeleteAccount deactivates the account. With hard set it is removed, which
// fails with ErrAccountInUse while transactions still reference it.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID, hard bool) error {
	return s.operator.Process(ctx, &actions.DeleteAccount{AccountID: id, Hard: hard})
}

// AuditAccount recomputes the account's balance from its transactions. Drift
// is reported in the result and announced, never returned as an error.
func (s *AccountService) AuditAccount(ctx context.Context, id uuid.UUID) (*AuditReport, error) {
	action := &actions.AuditAccount{AccountID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	result := action.Result
	if !result.IsConsistent {
		s.log.WithFields(logrus.Fields{
			"accountID":         result.AccountID,
			"currentBalance":    result.CurrentBalance.String(),
			"calculatedBalance": result.CalculatedBalance.String(),
			"difference":        result.Difference.String(),
		}).Warn("AccountService.AuditAccount.DriftDetected")

		s.publish(ctx, events.NewDriftDetected(
			result.AccountID,
			result.OwnerID,
			result.CurrentBalance,
			result.CalculatedBalance,
		))
	}

	report := auditReportFromBalance(result)
	return &report, nil
}

// AuditAllAccounts audits every account the owner has, active or not, and
// returns one report per account in name order. Accounts removed while the
// audit runs are left out.
func (s *AccountService) AuditAllAccounts(ctx context.Context, ownerID uuid.UUID) ([]AuditReport, error) {
	accounts, err := s.storage.Read().Accounts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	reports := make([]*AuditReport, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.auditConcurrency)
	for i, acc := range accounts {
		g.Go(func() error {
			report, err := s.AuditAccount(gctx, acc.ID)
			if errors.Is(err, apperr.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("audit account %s: %w", acc.ID, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]AuditReport, 0, len(reports))
	for _, report := range reports {
		if report != nil {
			results = append(results, *report)
		}
	}
	return results, nil
}

// RecalculateAccount overwrites the stored balance with the one recomputed
// from transactions.
func (s *AccountService) RecalculateAccount(ctx context.Context, id uuid.UUID) (*Recalculation, error) {
	action := &actions.RecalculateAccount{AccountID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	result := action.Result
	if result.Corrected {
		s.log.WithFields(logrus.Fields{
			"accountID":     result.AccountID,
			"balanceBefore": result.BalanceBefore.String(),
			"balanceAfter":  result.BalanceAfter.String(),
		}).Info("AccountService.RecalculateAccount.Corrected")

		s.publish(ctx, events.NewRecalculated(
			result.AccountID,
			result.OwnerID,
			result.BalanceBefore,
			result.BalanceAfter,
		))
	}

	return recalculationFromBalance(result), nil
}

func (s *AccountService) publish(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"eventType": event.Type,
			"accountID": event.AccountID,
		}).Error("AccountService.Publish.Error")
	}
}
