package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finances-tracker/internal/handlers/v1/account"
	"github.com/carson-networks/finances-tracker/internal/handlers/v1/imports"
	"github.com/carson-networks/finances-tracker/internal/handlers/v1/rule"
	"github.com/carson-networks/finances-tracker/internal/handlers/v1/status"
	"github.com/carson-networks/finances-tracker/internal/handlers/v1/summary"
	"github.com/carson-networks/finances-tracker/internal/handlers/v1/transaction"
	"github.com/carson-networks/finances-tracker/internal/logging"
	"github.com/carson-networks/finances-tracker/internal/service"
)

const shutdownTimeout = 10 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type Rest struct {
	Logger          *logrus.Logger
	Port            string
	Service         *service.Service
	DefaultCurrency string
	// DB backs the status check; nil skips the ping.
	DB pinger
}

// Handler builds the router with every v1 operation and /status mounted.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.DB)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Finances Tracker", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	svc := r.Service
	account.NewCreateAccountHandler(svc.Account, r.DefaultCurrency).Register(api)
	account.NewListAccountsHandler(svc.Account).Register(api)
	account.NewGetBalanceHandler(svc.Account).Register(api)

	transaction.NewCreateTransactionHandler(svc.Transaction).Register(api)
	transaction.NewCreateTransferHandler(svc.Transaction).Register(api)
	transaction.NewEditTransactionHandler(svc.Transaction).Register(api)
	transaction.NewListTransactionsHandler(svc.Transaction).Register(api)

	imports.NewHandler(svc.Transaction).Register(api)
	summary.NewHandler(svc.Transaction).Register(api)
	rule.NewHandler(svc.Rule).Register(api)

	return mux
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
