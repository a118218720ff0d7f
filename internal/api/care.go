package api

import (
	"net/http"
	"time"

	"flock/internal/models"
)

type careCreateRequest struct {
	MemberID   string `json:"memberId"`
	AssigneeID string `json:"assigneeId"`
	Reason     string `json:"reason,omitempty"`
}

// POST /api/care-assignments — назначает пастырская команда.
func (h *Handler) CareCreate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RolePastoralStaff); !ok {
		return
	}
	var req careCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var violations []string
	if req.MemberID == "" {
		violations = append(violations, "memberId is required")
	}
	if req.AssigneeID == "" {
		violations = append(violations, "assigneeId is required")
	}
	if len(violations) > 0 {
		writeValidation(w, violations)
		return
	}
	ca := &models.CareAssignment{
		MemberID:   req.MemberID,
		AssigneeID: req.AssigneeID,
		Reason:     req.Reason,
		Status:     models.CareOpen,
	}
	if err := h.d.Care.Create(r.Context(), ca); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, struct {
		Timestamp  string                 `json:"timestamp"`
		Assignment *models.CareAssignment `json:"assignment"`
	}{models.Stamp(), ca})
}

// GET /api/care-assignments[?assignee=me]
// Весь список — staff и care-team; остальные видят только свои поручения.
func (h *Handler) CareList(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	assignee := ""
	if r.URL.Query().Get("assignee") == "me" || (!acc.Role.Staff() && acc.Role != models.RoleCareTeam) {
		assignee = acc.ID
	}
	list, err := h.d.Care.List(r.Context(), assignee)
	if err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp   string                  `json:"timestamp"`
		Assignments []models.CareAssignment `json:"assignments"`
	}{models.Stamp(), list})
}

type careStatusRequest struct {
	Status string `json:"status"`
}

// PATCH /api/care-assignments/{id} — исполнитель или staff.
// Переход в visited фиксирует время визита.
func (h *Handler) CareUpdateStatus(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req careStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status, valid := models.ParseCareStatus(req.Status)
	if !valid {
		writeValidation(w, []string{"status must be one of: open, visited, closed"})
		return
	}
	ca, err := h.d.Care.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	if ca.AssigneeID != acc.ID && !acc.Role.Staff() {
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "insufficient role", nil)
		return
	}
	ca.Status = status
	if status == models.CareVisited && ca.VisitedAt == nil {
		now := time.Now().UTC()
		ca.VisitedAt = &now
	}
	if err := h.d.Care.Update(r.Context(), ca); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp  string                 `json:"timestamp"`
		Assignment *models.CareAssignment `json:"assignment"`
	}{models.Stamp(), ca})
}
