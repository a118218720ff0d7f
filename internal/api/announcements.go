package api

import (
	"net/http"
	"time"

	"flock/internal/models"
)

type announcementRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	Audience  string `json:"audience,omitempty"`
	Published *bool  `json:"published,omitempty"`
}

func (ar *announcementRequest) validate() ([]string, models.Audience) {
	var violations []string
	if ar.Title == "" {
		violations = append(violations, "title is required")
	}
	audience := models.AudienceAll
	if ar.Audience != "" {
		var valid bool
		audience, valid = models.ParseAudience(ar.Audience)
		if !valid {
			violations = append(violations, "audience must be one of: all, members, leaders")
		}
	}
	return violations, audience
}

// POST /api/announcements — staff.
func (h *Handler) AnnouncementCreate(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireRole(w, r, models.RolePastoralStaff)
	if !ok {
		return
	}
	var req announcementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	violations, audience := req.validate()
	if len(violations) > 0 {
		writeValidation(w, violations)
		return
	}
	a := &models.Announcement{
		Title:    req.Title,
		Body:     req.Body,
		Audience: audience,
		AuthorID: acc.ID,
	}
	if req.Published != nil && *req.Published {
		a.Published = true
		now := time.Now().UTC()
		a.PublishedAt = &now
	}
	if err := h.d.Announcements.Create(r.Context(), a); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, struct {
		Timestamp    string               `json:"timestamp"`
		Announcement *models.Announcement `json:"announcement"`
	}{models.Stamp(), a})
}

// GET /api/announcements[?all=1]
// Черновики видит только staff.
func (h *Handler) AnnouncementsList(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	publishedOnly := !(r.URL.Query().Get("all") == "1" && acc.Role.Staff())
	list, err := h.d.Announcements.List(r.Context(), publishedOnly)
	if err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp     string                `json:"timestamp"`
		Announcements []models.Announcement `json:"announcements"`
	}{models.Stamp(), list})
}

// GET /api/announcements/{id}
func (h *Handler) AnnouncementGet(w http.ResponseWriter, r *http.Request) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	a, err := h.d.Announcements.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	if !a.Published && !acc.Role.Staff() {
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "record not found", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp    string               `json:"timestamp"`
		Announcement *models.Announcement `json:"announcement"`
	}{models.Stamp(), a})
}

// PUT /api/announcements/{id} — staff.
func (h *Handler) AnnouncementUpdate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RolePastoralStaff); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	a, err := h.d.Announcements.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	var req announcementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	violations, audience := req.validate()
	if len(violations) > 0 {
		writeValidation(w, violations)
		return
	}
	a.Title = req.Title
	a.Body = req.Body
	a.Audience = audience
	if req.Published != nil {
		if *req.Published && !a.Published {
			now := time.Now().UTC()
			a.PublishedAt = &now
		}
		a.Published = *req.Published
	}
	if err := h.d.Announcements.Update(r.Context(), a); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp    string               `json:"timestamp"`
		Announcement *models.Announcement `json:"announcement"`
	}{models.Stamp(), a})
}

// DELETE /api/announcements/{id} — staff.
func (h *Handler) AnnouncementDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RolePastoralStaff); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.d.Announcements.Delete(r.Context(), id); err != nil {
		storeError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string `json:"timestamp"`
		Message   string `json:"message"`
	}{models.Stamp(), "announcement deleted"})
}
