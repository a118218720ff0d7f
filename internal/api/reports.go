package api

import (
	"net/http"

	"flock/internal/models"
	"flock/internal/repo"
)

// GET /api/reports/dashboard — сводные счётчики для staff.
func (h *Handler) ReportsDashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RolePastoralStaff); !ok {
		return
	}
	counts, err := h.d.Reports.Dashboard(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string                `json:"timestamp"`
		Dashboard *repo.DashboardCounts `json:"dashboard"`
	}{models.Stamp(), counts})
}
