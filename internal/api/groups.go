package api

import (
	"net/http"

	"flock/internal/models"
)

type groupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LeaderID    string `json:"leaderId,omitempty"`
	MeetDay     string `json:"meetDay,omitempty"`
}

func (gr *groupRequest) validate() []string {
	var violations []string
	if gr.Name == "" {
		violations = append(violations, "name is required")
	}
	return violations
}

// POST /api/groups — staff или group-leader.
func (h *Handler) GroupCreate(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireRole(w, r, models.RolePastoralStaff, models.RoleGroupLeader)
	if !ok {
		return
	}
	var req groupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if v := req.validate(); len(v) > 0 {
		writeValidation(w, v)
		return
	}
	leader := req.LeaderID
	if leader == "" {
		leader = acc.ID
	}
	g := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		LeaderID:    leader,
		MeetDay:     req.MeetDay,
	}
	if err := h.d.Groups.Create(r.Context(), g); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, struct {
		Timestamp string        `json:"timestamp"`
		Group     *models.Group `json:"group"`
	}{models.Stamp(), g})
}

// GET /api/groups
func (h *Handler) GroupsList(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccount(w, r); !ok {
		return
	}
	groups, err := h.d.Groups.List(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string         `json:"timestamp"`
		Groups    []models.Group `json:"groups"`
	}{models.Stamp(), groups})
}

// GET /api/groups/{id}
func (h *Handler) GroupGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccount(w, r); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	g, err := h.d.Groups.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string        `json:"timestamp"`
		Group     *models.Group `json:"group"`
	}{models.Stamp(), g})
}

// PUT /api/groups/{id} — staff или лидер этой группы.
func (h *Handler) GroupUpdate(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	g, err := h.d.Groups.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	if !acc.Role.Staff() && g.LeaderID != acc.ID {
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "insufficient role", nil)
		return
	}
	var req groupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if v := req.validate(); len(v) > 0 {
		writeValidation(w, v)
		return
	}
	g.Name = req.Name
	g.Description = req.Description
	if req.LeaderID != "" {
		g.LeaderID = req.LeaderID
	}
	g.MeetDay = req.MeetDay
	if err := h.d.Groups.Update(r.Context(), g); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string        `json:"timestamp"`
		Group     *models.Group `json:"group"`
	}{models.Stamp(), g})
}

// DELETE /api/groups/{id} — только staff.
func (h *Handler) GroupDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RolePastoralStaff); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.d.Groups.Delete(r.Context(), id); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string `json:"timestamp"`
		Message   string `json:"message"`
	}{models.Stamp(), "group deleted"})
}

type groupMemberRequest struct {
	AccountID string `json:"accountId"`
}

// POST /api/groups/{id}/members — staff или лидер группы.
func (h *Handler) GroupAddMember(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	g, err := h.d.Groups.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	if !acc.Role.Staff() && g.LeaderID != acc.ID {
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "insufficient role", nil)
		return
	}
	var req groupMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AccountID == "" {
		writeValidation(w, []string{"accountId is required"})
		return
	}
	if err := h.d.Groups.AddMember(r.Context(), id, req.AccountID); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, struct {
		Timestamp string `json:"timestamp"`
		Message   string `json:"message"`
	}{models.Stamp(), "member added"})
}

// DELETE /api/groups/{id}/members/{accountId}
func (h *Handler) GroupRemoveMember(w http.ResponseWriter, r *http.Request) {
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
	g, err := h.d.Groups.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	// выйти из группы можно самому; чужих убирает staff/лидер
	if accountID != acc.ID && !acc.Role.Staff() && g.LeaderID != acc.ID {
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "insufficient role", nil)
		return
	}
	if err := h.d.Groups.RemoveMember(r.Context(), id, accountID); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string `json:"timestamp"`
		Message   string `json:"message"`
	}{models.Stamp(), "member removed"})
}
