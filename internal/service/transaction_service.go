package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

const defaultLimit = transaction.DefaultListLimit

// TransactionService handles transaction business logic. Every change goes
// through the balance mutator so account balances move with it.
type TransactionService struct {
	storage  storage.Storage
	operator operator.IOperator
	log      *logrus.Entry
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store storage.Storage, op operator.IOperator, log *logrus.Entry) *TransactionService {
	return &TransactionService{
		storage:  store,
		operator: op,
		log:      log.WithField("service", "transaction"),
	}
}

// amountScale is the number of decimal places the amount columns keep.
const amountScale = 4

func checkScale(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(amountScale)) {
		return apperr.Invalid("%s supports at most %d decimal places", field, amountScale)
	}
	return nil
}

func validateTransaction(in *TransactionInput) error {
	in.TransactionName = strings.TrimSpace(in.TransactionName)
	if in.TransactionName == "" {
		return apperr.Invalid("transaction name is required")
	}
	if in.CategoryID == uuid.Nil {
		return apperr.Invalid("category is required")
	}
	if !transaction.TransactionType(in.TransactionType).Valid() {
		return apperr.Invalid("transaction type must be %q or %q", TransactionTypeIncome, TransactionTypeExpense)
	}
	return checkScale("amount", in.Amount)
}

// CreateTransaction records a transaction and applies its amount to the
// bound account.
func (s *TransactionService) CreateTransaction(ctx context.Context, in TransactionInput) (*Transaction, error) {
	if err := validateTransaction(&in); err != nil {
		return nil, err
	}
	if in.TransactionDate.IsZero() {
		in.TransactionDate = time.Now().UTC()
	}

	action := &actions.CreateTransaction{Create: in.toCreate()}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"transactionID": action.Result.ID,
		"amount":        action.Result.Amount.String(),
	}).Debug("TransactionService.CreateTransaction.Created")
	return transactionFromStorage(action.Result), nil
}

// GetTransaction retrieves a transaction by ID.
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	row, err := s.storage.Read().Transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return transactionFromStorage(row), nil
}

// ListTransactions returns a page of transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, query TransactionQuery, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	filter := &transaction.TransactionFilter{
		OwnerID:   query.OwnerID,
		AccountID: query.AccountID,
		Limit:     defaultLimit,
	}
	if cursor != nil {
		filter.Limit = cursor.Limit
		filter.Offset = cursor.Position
		if !cursor.MaxCreationTime.IsZero() {
			maxCreationTime := cursor.MaxCreationTime
			filter.MaxCreationTime = &maxCreationTime
		}
	}

	result, err := s.storage.Read().Transactions.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(result.Transactions) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if result.NextCursor != nil {
		nextCursor = &TransactionCursor{
			Position:        result.NextCursor.Position,
			Limit:           result.NextCursor.Limit,
			MaxCreationTime: result.NextCursor.MaxCreationTime,
		}
	}

	convertedTransactions := make([]Transaction, len(result.Transactions))
	for i, row := range result.Transactions {
		convertedTransactions[i] = *transactionFromStorage(row)
	}

	return convertedTransactions, nextCursor, nil
}

// UpdateTransaction replaces every mutable field. The old amount is taken out
// of the old account and the new amount applied to the new one, atomically.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id uuid.UUID, in TransactionInput) (*Transaction, error) {
	if err := validateTransaction(&in); err != nil {
		return nil, err
	}

	action := &actions.UpdateTransaction{TransactionID: id, Update: in.toUpdate()}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"transactionID":  id,
		"previousAmount": action.Previous.Amount.String(),
		"amount":         action.Result.Amount.String(),
	}).Debug("TransactionService.UpdateTransaction.Updated")
	return transactionFromStorage(action.Result), nil
}

// DeleteTransaction removes the transaction and reverses its effect on the
// bound account.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	action := &actions.DeleteTransaction{TransactionID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return transactionFromStorage(action.Result), nil
}
