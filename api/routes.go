package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/handlers/v1/account"
	"github.com/carson-networks/finance-server/internal/handlers/v1/status"
	"github.com/carson-networks/finance-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type Rest struct {
	Logger  *logrus.Logger
	Port    int
	Storage storage.Storage
	Service *service.Service
}

// Handler builds the HTTP handler serving every route.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("finance-server", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))

	status.NewHandler(r.Storage).Register(api)

	accounts := r.Service.Account
	account.NewCreateAccountHandler(accounts).Register(api)
	account.NewGetAccountHandler(accounts).Register(api)
	account.NewListAccountsHandler(accounts).Register(api)
	account.NewUpdateAccountHandler(accounts).Register(api)
	account.NewDeleteAccountHandler(accounts).Register(api)
	account.NewAuditAccountHandler(accounts).Register(api)
	account.NewAuditAllAccountsHandler(accounts).Register(api)
	account.NewRecalculateAccountHandler(accounts).Register(api)

	transactions := r.Service.Transaction
	transaction.NewCreateTransactionHandler(transactions).Register(api)
	transaction.NewGetTransactionHandler(transactions).Register(api)
	transaction.NewListTransactionsHandler(transactions).Register(api)
	transaction.NewUpdateTransactionHandler(transactions).Register(api)
	transaction.NewDeleteTransactionHandler(transactions).Register(api)

	return mux
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + strconv.Itoa(r.Port),
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		r.Logger.Info("HttpServer.Serve.shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}
	return <-shutdownErr
}
