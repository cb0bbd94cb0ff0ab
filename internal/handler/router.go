// Package handler wires the HTTP surface of the bank ledger. Handlers stay
// thin and delegate all business rules to the service layer.
package handler

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/msomdec/bank-ledger/internal/service"
)

// NewRouter builds the chi router with the full middleware stack and all
// API routes attached.
func NewRouter(ledger *service.LedgerService, creds *service.CredentialService, logger *slog.Logger, cookieSecure bool) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)
	r.Use(securityHeaders)

	authHandler := NewAuthHandler(creds, cookieSecure)
	accountHandler := NewAccountHandler(ledger)
	dashboardHandler := NewDashboardHandler(ledger)

	r.Get("/healthz", HandleHealthz)
	r.Handle("/metrics", metricsHandler())

	r.Post("/api/auth/register", authHandler.HandleRegister)
	r.Post("/api/auth/login", authHandler.HandleLogin)
	r.Post("/api/auth/logout", authHandler.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return RequireAuth(creds, next)
		})

		r.Get("/api/auth/me", authHandler.HandleMe)

		r.Post("/api/accounts", accountHandler.HandleCreate)
		r.Get("/api/accounts", accountHandler.HandleList)
		r.Get("/api/accounts/{number}", accountHandler.HandleGet)
		r.Get("/api/accounts/{number}/balance", accountHandler.HandleBalance)
		r.Post("/api/accounts/{number}/deposit", accountHandler.HandleDeposit)
		r.Post("/api/accounts/{number}/withdraw", accountHandler.HandleWithdraw)
		r.Put("/api/accounts/{number}", accountHandler.HandleModify)
		r.Delete("/api/accounts/{number}", accountHandler.HandleDelete)

		r.Get("/api/dashboard", dashboardHandler.HandleStats)
	})

	return r
}
