package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cashlens/cashlens/internal/application/dto"
	"github.com/cashlens/cashlens/internal/application/usecase"
	"github.com/cashlens/cashlens/pkg/auth"
)

// wireDateLayout is the only date format accepted and emitted on the wire.
const wireDateLayout = "2006-01-02"

// defaultHistoryDays is the trailing window used when the history range is
// not given.
const defaultHistoryDays = 30

// Handler wires the use cases to HTTP. The clock is injected so handlers stay
// deterministic under test.
type Handler struct {
	link       *usecase.LinkAccountUseCase
	balances   *usecase.GetBalancesUseCase
	history    *usecase.BalanceHistoryUseCase
	cashflow   *usecase.MonthlyCashflowUseCase
	comparison *usecase.MonthlyComparisonUseCase
	categories *usecase.UpdateCategoriesUseCase
	deactivate *usecase.DeactivateAccountUseCase
	sync       *usecase.SyncBalancesUseCase
	logger     *slog.Logger
	now        func() time.Time
}

// NewHandler creates the HTTP handler set.
func NewHandler(
	link *usecase.LinkAccountUseCase,
	balances *usecase.GetBalancesUseCase,
	history *usecase.BalanceHistoryUseCase,
	cashflow *usecase.MonthlyCashflowUseCase,
	comparison *usecase.MonthlyComparisonUseCase,
	categories *usecase.UpdateCategoriesUseCase,
	deactivate *usecase.DeactivateAccountUseCase,
	sync *usecase.SyncBalancesUseCase,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		link:       link,
		balances:   balances,
		history:    history,
		cashflow:   cashflow,
		comparison: comparison,
		categories: categories,
		deactivate: deactivate,
		sync:       sync,
		logger:     logger,
		now:        time.Now,
	}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	return claims.UserID, true
}

func (h *Handler) createLinkToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	resp, err := h.link.CreateLinkToken(r.Context(), userID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) exchangeToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var body struct {
		PublicToken string `json:"publicToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.PublicToken == "" {
		writeError(w, http.StatusBadRequest, "publicToken is required")
		return
	}

	resp, err := h.link.ExchangeToken(r.Context(), dto.ExchangeTokenRequest{
		UserID:      userID,
		PublicToken: body.PublicToken,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) getBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	resp, err := h.balances.Execute(r.Context(), userID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getBalanceHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	now := h.now().UTC()
	start := now.AddDate(0, 0, -defaultHistoryDays)
	end := now

	q := r.URL.Query()
	if raw := q.Get("startDate"); raw != "" {
		parsed, err := time.Parse(wireDateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "startDate must be formatted YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if raw := q.Get("endDate"); raw != "" {
		parsed, err := time.Parse(wireDateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "endDate must be formatted YYYY-MM-DD")
			return
		}
		end = parsed
	}
	if start.After(end) {
		writeError(w, http.StatusBadRequest, "startDate must not be after endDate")
		return
	}

	resp, err := h.history.Execute(r.Context(), userID, start, end)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getMonthlyCashflow(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	resp, err := h.cashflow.Execute(r.Context(), userID, h.now())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getMonthlyComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	reference := h.now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(wireDateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}
		reference = parsed
	}

	resp, err := h.comparison.Execute(r.Context(), userID, reference)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	accountID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	// Both flags are required; pointer fields distinguish absent from false.
	var body struct {
		IsInflow  *bool `json:"isInflow"`
		IsOutflow *bool `json:"isOutflow"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.IsInflow == nil || body.IsOutflow == nil {
		writeError(w, http.StatusBadRequest, "isInflow and isOutflow are required")
		return
	}

	resp, err := h.categories.Execute(r.Context(), accountID, userID, *body.IsInflow, *body.IsOutflow)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) deactivateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	accountID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	if err := h.deactivate.Execute(r.Context(), accountID, userID); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) runSync(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !claims.HasRole(auth.RoleAdmin) {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	report, err := h.sync.Execute(r.Context(), h.now())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readiness is wired to the database health check in main.
func readyz(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
