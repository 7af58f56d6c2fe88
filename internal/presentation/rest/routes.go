package rest

import (
	"net/http"
)

// SkipAuthPaths lists the endpoints served without a bearer token.
var SkipAuthPaths = []string{"/healthz", "/readyz", "/metrics"}

// RegisterRoutes registers all REST API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, readinessCheck func() error) {
	// Health
	mux.HandleFunc("GET /healthz", healthz)
	mux.Handle("GET /readyz", readyz(readinessCheck))

	// Link flow
	mux.HandleFunc("POST /api/v1/link/token", h.createLinkToken)
	mux.HandleFunc("POST /api/v1/link/exchange", h.exchangeToken)

	// Accounts
	mux.HandleFunc("PUT /api/v1/accounts/{id}/categories", h.updateCategories)
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", h.deactivateAccount)

	// Queries
	mux.HandleFunc("GET /api/v1/balances", h.getBalances)
	mux.HandleFunc("GET /api/v1/balance-history", h.getBalanceHistory)
	mux.HandleFunc("GET /api/v1/cashflow/monthly", h.getMonthlyCashflow)
	mux.HandleFunc("GET /api/v1/monthly-comparison", h.getMonthlyComparison)

	// Admin
	mux.HandleFunc("POST /api/v1/sync/run", h.runSync)
}
