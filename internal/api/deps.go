package api

import (
	"context"

	"github.com/gorilla/mux"

	"flock/internal/models"
	"flock/internal/repo"
)

// Контракты хранилищ, которые нужны HTTP-слою.
// Конкретные реализации — internal/repo; в тестах — фейки.

type AccountStore interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context, includeInactive bool) ([]models.Account, error)
	UpdateProfile(ctx context.Context, p *models.Profile) error
	UpdateRole(ctx context.Context, id string, role models.Role) error
	Deactivate(ctx context.Context, id string) error
}

type GroupStore interface {
	Create(ctx context.Context, g *models.Group) error
	List(ctx context.Context) ([]models.Group, error)
	Get(ctx context.Context, id string) (*models.Group, error)
	Update(ctx context.Context, g *models.Group) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, groupID, accountID string) error
	RemoveMember(ctx context.Context, groupID, accountID string) error
}

type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	List(ctx context.Context, upcomingOnly bool) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id string) error
	AddSignup(ctx context.Context, eventID, accountID, roleSlot string) error
	RemoveSignup(ctx context.Context, eventID, accountID string) error
}

type PrayerStore interface {
	Create(ctx context.Context, p *models.PrayerRequest) error
	List(ctx context.Context, accountID string, all bool) ([]models.PrayerRequest, error)
	Get(ctx context.Context, id string) (*models.PrayerRequest, error)
	Update(ctx context.Context, p *models.PrayerRequest) error
}

type CareStore interface {
	Create(ctx context.Context, c *models.CareAssignment) error
	List(ctx context.Context, assigneeID string) ([]models.CareAssignment, error)
	Get(ctx context.Context, id string) (*models.CareAssignment, error)
	Update(ctx context.Context, c *models.CareAssignment) error
}

type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	List(ctx context.Context, publishedOnly bool) ([]models.Announcement, error)
	Get(ctx context.Context, id string) (*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

type ReportStore interface {
	Dashboard(ctx context.Context) (*repo.DashboardCounts, error)
}

type Dependencies struct {
	Accounts      AccountStore
	Groups        GroupStore
	Events        EventStore
	Prayers       PrayerStore
	Care          CareStore
	Announcements AnnouncementStore
	Reports       ReportStore
}

// Attach вешает защищённый CRUD-слой под /api; authn — middleware
// аутентификации (в тестах подменяется стабом).
func Attach(r *mux.Router, d Dependencies, authn mux.MiddlewareFunc) {
	h := &Handler{d: d}
	sub := r.PathPrefix("/api").Subrouter()
	if authn != nil {
		sub.Use(authn)
	}

	// члены прихода
	sub.HandleFunc("/members", h.MembersList).Methods("GET")
	sub.HandleFunc("/members/{id}", h.MemberGet).Methods("GET")
	sub.HandleFunc("/members/{id}", h.MemberUpdate).Methods("PATCH")
	sub.HandleFunc("/members/{id}", h.MemberDeactivate).Methods("DELETE")

	// малые группы
	sub.HandleFunc("/groups", h.GroupCreate).Methods("POST")
	sub.HandleFunc("/groups", h.GroupsList).Methods("GET")
	sub.HandleFunc("/groups/{id}", h.GroupGet).Methods("GET")
	sub.HandleFunc("/groups/{id}", h.GroupUpdate).Methods("PUT")
	sub.HandleFunc("/groups/{id}", h.GroupDelete).Methods("DELETE")
	sub.HandleFunc("/groups/{id}/members", h.GroupAddMember).Methods("POST")
	sub.HandleFunc("/groups/{id}/members/{accountId}", h.GroupRemoveMember).Methods("DELETE")

	// события и волонтёры
	sub.HandleFunc("/events", h.EventCreate).Methods("POST")
	sub.HandleFunc("/events", h.EventsList).Methods("GET")
	sub.HandleFunc("/events/{id}", h.EventGet).Methods("GET")
	sub.HandleFunc("/events/{id}", h.EventUpdate).Methods("PUT")
	sub.HandleFunc("/events/{id}", h.EventDelete).Methods("DELETE")
	sub.HandleFunc("/events/{id}/signups", h.EventSignup).Methods("POST")
	sub.HandleFunc("/events/{id}/signups/{accountId}", h.EventSignupRemove).Methods("DELETE")

	// молитвенные нужды
	sub.HandleFunc("/prayer-requests", h.PrayerCreate).Methods("POST")
	sub.HandleFunc("/prayer-requests", h.PrayersList).Methods("GET")
	sub.HandleFunc("/prayer-requests/{id}", h.PrayerUpdateStatus).Methods("PATCH")

	// пастырская забота
	sub.HandleFunc("/care-assignments", h.CareCreate).Methods("POST")
	sub.HandleFunc("/care-assignments", h.CareList).Methods("GET")
	sub.HandleFunc("/care-assignments/{id}", h.CareUpdateStatus).Methods("PATCH")

	// объявления
	sub.HandleFunc("/announcements", h.AnnouncementCreate).Methods("POST")
	sub.HandleFunc("/announcements", h.AnnouncementsList).Methods("GET")
	sub.HandleFunc("/announcements/{id}", h.AnnouncementGet).Methods("GET")
	sub.HandleFunc("/announcements/{id}", h.AnnouncementUpdate).Methods("PUT")
	sub.HandleFunc("/announcements/{id}", h.AnnouncementDelete).Methods("DELETE")

	// отчёты
	sub.HandleFunc("/reports/dashboard", h.ReportsDashboard).Methods("GET")
}

type Handler struct {
	d Dependencies
}
