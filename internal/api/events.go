package api

import (
	"net/http"
	"time"

	"gorm.io/datatypes"

	"flock/internal/models"
)

type eventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	StartsAt    time.Time       `json:"startsAt"`
	EndsAt      *time.Time      `json:"endsAt,omitempty"`
	Capacity    int             `json:"capacity,omitempty"`
	Details     *datatypes.JSON `json:"details,omitempty"`
}

func (er *eventRequest) validate() []string {
	var violations []string
	if er.Title == "" {
		violations = append(violations, "title is required")
	}
	if er.StartsAt.IsZero() {
		violations = append(violations, "startsAt is required")
	}
	if er.EndsAt != nil && er.EndsAt.Before(er.StartsAt) {
		violations = append(violations, "endsAt must not precede startsAt")
	}
	if er.Capacity < 0 {
		violations = append(violations, "capacity must not be negative")
	}
	return violations
}

// POST /api/events — staff.
func (h *Handler) EventCreate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RolePastoralStaff); !ok {
		return
	}
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if v := req.validate(); len(v) > 0 {
		writeValidation(w, v)
		return
	}
	e := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt.UTC(),
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
	}
	if req.Details != nil {
		e.Details = *req.Details
	}
	if err := h.d.Events.Create(r.Context(), e); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, struct {
		Timestamp string        `json:"timestamp"`
		Event     *models.Event `json:"event"`
	}{models.Stamp(), e})
}

// GET /api/events[?upcoming=1]
func (h *Handler) EventsList(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccount(w, r); !ok {
		return
	}
	events, err := h.d.Events.List(r.Context(), r.URL.Query().Get("upcoming") == "1")
	if err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string         `json:"timestamp"`
		Events    []models.Event `json:"events"`
	}{models.Stamp(), events})
}

// GET /api/events/{id}
func (h *Handler) EventGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccount(w, r); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	e, err := h.d.Events.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string        `json:"timestamp"`
		Event     *models.Event `json:"event"`
	}{models.Stamp(), e})
}

// PUT /api/events/{id} — staff.
func (h *Handler) EventUpdate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RolePastoralStaff); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	e, err := h.d.Events.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if v := req.validate(); len(v) > 0 {
		writeValidation(w, v)
		return
	}
	e.Title = req.Title
	e.Description = req.Description
	e.Location = req.Location
	e.StartsAt = req.StartsAt.UTC()
	e.EndsAt = req.EndsAt
	e.Capacity = req.Capacity
	if req.Details != nil {
		e.Details = *req.Details
	}
	if err := h.d.Events.Update(r.Context(), e); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string        `json:"timestamp"`
		Event     *models.Event `json:"event"`
	}{models.Stamp(), e})
}

// DELETE /api/events/{id} — staff.
func (h *Handler) EventDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RolePastoralStaff); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.d.Events.Delete(r.Context(), id); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string `json:"timestamp"`
		Message   string `json:"message"`
	}{models.Stamp(), "event deleted"})
}

type signupRequest struct {
	RoleSlot string `json:"roleSlot,omitempty"`
}

// POST /api/events/{id}/signups — запись себя волонтёром.
func (h *Handler) EventSignup(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req signupRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	if err := h.d.Events.AddSignup(r.Context(), id, acc.ID, req.RoleSlot); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, struct {
		Timestamp string `json:"timestamp"`
		Message   string `json:"message"`
	}{models.Stamp(), "signed up"})
}

// DELETE /api/events/{id}/signups/{accountId} — сам или staff.
func (h *Handler) EventSignupRemove(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	accountID, ok := pathUUID(w, r, "accountId")
	if !ok {
		return
	}
	if accountID != acc.ID && !acc.Role.Staff() {
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "insufficient role", nil)
		return
	}
	if err := h.d.Events.RemoveSignup(r.Context(), id, accountID); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string `json:"timestamp"`
		Message   string `json:"message"`
	}{models.Stamp(), "signup removed"})
}
