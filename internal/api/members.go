package api

import (
	"net/http"

	"gorm.io/datatypes"

	"flock/internal/models"
)

// GET /api/members[?all=1]
// Деактивированные записи видны только staff-ролям.
func (h *Handler) MembersList(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	includeInactive := r.URL.Query().Get("all") == "1" && acc.Role.Staff()
	members, err := h.d.Accounts.List(r.Context(), includeInactive)
	if err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string           `json:"timestamp"`
		Members   []models.Account `json:"members"`
	}{models.Stamp(), members})
}

// GET /api/members/{id}
func (h *Handler) MemberGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccount(w, r); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	member, err := h.d.Accounts.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string          `json:"timestamp"`
		Member    *models.Account `json:"member"`
	}{models.Stamp(), member})
}

type memberUpdateRequest struct {
	FirstName *string         `json:"firstName,omitempty"`
	LastName  *string         `json:"lastName,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	PhotoURL  *string         `json:"photoUrl,omitempty"`
	Contact   *datatypes.JSON `json:"contact,omitempty"`
	Role      *string         `json:"role,omitempty"` // менять роль может только administrator
}

// PATCH /api/members/{id} — сам себя или staff.
func (h *Handler) MemberUpdate(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if id != acc.ID && !acc.Role.Staff() {
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "insufficient role", nil)
		return
	}

	var req memberUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	target, err := h.d.Accounts.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}

	if req.Role != nil {
		if acc.Role != models.RoleAdministrator {
			models.WriteProblem(w, http.StatusForbidden, "Forbidden", "only administrators may change roles", nil)
			return
		}
		role, valid := models.ParseRole(*req.Role)
		if !valid {
			writeValidation(w, []string{"role must be one of: administrator, pastoral-staff, care-team, group-leader, member"})
			return
		}
		if err := h.d.Accounts.UpdateRole(r.Context(), id, role); err != nil {
			storeError(w, r, err)
			return
		}
		target.Role = role
	}

	p := target.Profile
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.PhotoURL != nil {
		p.PhotoURL = *req.PhotoURL
	}
	if req.Contact != nil {
		p.Contact = *req.Contact
	}
	if p.FirstName == "" || p.LastName == "" {
		writeValidation(w, []string{"firstName and lastName must not be empty"})
		return
	}
	if err := h.d.Accounts.UpdateProfile(r.Context(), &p); err != nil {
		storeError(w, r, err)
		return
	}
	target.Profile = p

	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string          `json:"timestamp"`
		Member    *models.Account `json:"member"`
	}{models.Stamp(), target})
}

// DELETE /api/members/{id} — мягкая деактивация, не удаление.
func (h *Handler) MemberDeactivate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RolePastoralStaff); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.d.Accounts.Deactivate(r.Context(), id); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string `json:"timestamp"`
		Message   string `json:"message"`
	}{models.Stamp(), "member deactivated"})
}
