package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/bank-ledger/internal/service"
)

// DashboardHandler serves the aggregate account summary.
type DashboardHandler struct {
	ledger *service.LedgerService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(ledger *service.LedgerService) *DashboardHandler {
	return &DashboardHandler{ledger: ledger}
}

// HandleStats returns the count/sum/type-breakdown summary across all
// accounts, zero-filled when the store is empty.
// GET /api/dashboard
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.Stats(r.Context())
	if err != nil {
		slog.Error("dashboard stats", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": toStatsDTO(stats)})
}
