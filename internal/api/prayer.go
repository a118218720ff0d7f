package api

import (
	"net/http"

	"flock/internal/models"
)

type prayerCreateRequest struct {
	Subject      string `json:"subject"`
	Body         string `json:"body,omitempty"`
	Confidential bool   `json:"confidential,omitempty"`
}

// POST /api/prayer-requests
func (h *Handler) PrayerCreate(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	var req prayerCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Subject == "" {
		writeValidation(w, []string{"subject is required"})
		return
	}
	p := &models.PrayerRequest{
		AccountID:    acc.ID,
		Subject:      req.Subject,
		Body:         req.Body,
		Confidential: req.Confidential,
		Status:       models.PrayerOpen,
	}
	if err := h.d.Prayers.Create(r.Context(), p); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, struct {
		Timestamp string                `json:"timestamp"`
		Request   *models.PrayerRequest `json:"request"`
	}{models.Stamp(), p})
}

// canSeeAllPrayers — конфиденциальные нужды видят только пастырские роли.
func canSeeAllPrayers(role models.Role) bool {
	return role.Staff() || role == models.RoleCareTeam
}

// GET /api/prayer-requests[?all=1]
func (h *Handler) PrayersList(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	all := r.URL.Query().Get("all") == "1" && canSeeAllPrayers(acc.Role)
	list, err := h.d.Prayers.List(r.Context(), acc.ID, all)
	if err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string                 `json:"timestamp"`
		Requests  []models.PrayerRequest `json:"requests"`
	}{models.Stamp(), list})
}

type prayerStatusRequest struct {
	Status string `json:"status"`
}

// PATCH /api/prayer-requests/{id} — автор или пастырская команда;
// только вперёд по цепочке open → praying → answered → archived.
func (h *Handler) PrayerUpdateStatus(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req prayerStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status, valid := models.ParsePrayerStatus(req.Status)
	if !valid {
		writeValidation(w, []string{"status must be one of: open, praying, answered, archived"})
		return
	}
	p, err := h.d.Prayers.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	if p.AccountID != acc.ID && !canSeeAllPrayers(acc.Role) {
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "insufficient role", nil)
		return
	}
	if !p.Status.CanTransition(status) {
		writeValidation(w, []string{"cannot transition from " + string(p.Status) + " to " + string(status)})
		return
	}
	p.Status = status
	if err := h.d.Prayers.Update(r.Context(), p); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string                `json:"timestamp"`
		Request   *models.PrayerRequest `json:"request"`
	}{models.Stamp(), p})
}
