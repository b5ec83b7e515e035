package service

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
}

type Options struct {
	Storage          storage.Storage
	Operator         operator.IOperator
	Publisher        events.Publisher
	Log              *logrus.Entry
	AuditConcurrency int
}

// NewService wires the account and transaction services. Reads go straight to
// storage; every write runs as an operator action.
func NewService(opts Options) *Service {
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		Transaction: NewTransactionService(opts.Storage, opts.Operator, opts.Log),
		Account:     NewAccountService(opts.Storage, opts.Operator, publisher, opts.Log, opts.AuditConcurrency),
	}
}
