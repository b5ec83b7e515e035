package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/api"
	"github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage/backend"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger, err := logging.SetupLogging(envConfig.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("logging.SetupLogging")
		return
	}
	log := logrus.NewEntry(logger)
	log.WithField("storageBackend", envConfig.StorageBackend).Info("finance-server starting")

	store, err := backend.Open(envConfig, log)
	if err != nil {
		log.WithError(err).Fatal("backend.Open")
		return
	}
	defer store.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if envConfig.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(envConfig.AMQPURL, envConfig.AMQPExchange)
		if err != nil {
			log.WithError(err).Fatal("events.NewAMQPPublisher")
			return
		}
		publisher = amqpPublisher
	}
	defer publisher.Close()

	op := operator.NewOperatorDelegator(store, envConfig.WorkerCount, log)
	op.Start()
	defer op.Stop()

	svc := service.NewService(service.Options{
		Storage:          store,
		Operator:         op,
		Publisher:        publisher,
		Log:              log,
		AuditConcurrency: envConfig.AuditConcurrency,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.Port,
		Storage: store,
		Service: svc,
	}
	if err := httpRest.Serve(ctx); err != nil {
		log.WithError(err).Error("HttpServer.Serve")
	}
	log.Info("finance-server stopped")
}
