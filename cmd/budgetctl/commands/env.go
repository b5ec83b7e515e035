package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage/backend"
)

// openService wires storage, operator and publisher the way the server does.
// Logs go to stderr so --json output stays clean.
func openService(context.Context) (balanceService, func(), error) {
	cfg, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	logger, err := logging.SetupLogging(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(os.Stderr)
	log := logrus.NewEntry(logger).WithField("component", "budgetctl")

	store, err := backend.Open(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("events: %w", err)
		}
		publisher = amqpPublisher
	}

	op := operator.NewOperatorDelegator(store, cfg.WorkerCount, log)
	op.Start()

	svc := service.NewService(service.Options{
		Storage:          store,
		Operator:         op,
		Publisher:        publisher,
		Log:              log,
		AuditConcurrency: cfg.AuditConcurrency,
	})

	closeFn := func() {
		op.Stop()
		_ = publisher.Close()
		_ = store.Close()
	}
	return svc.Account, closeFn, nil
}
