package health

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"flock/internal/models"
)

// RegisterRoutes — базовый liveness.
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", liveness).Methods(http.MethodGet)
}

// RegisterRoutesWithDB — liveness + readiness (пинг БД).
// Отказ readiness отдаётся в общем для приложения формате problem+json.
func RegisterRoutesWithDB(r *mux.Router, db *gorm.DB) {
	RegisterRoutes(r)
	r.HandleFunc("/readyz", readiness(db)).Methods(http.MethodGet)
}

func readiness(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if db == nil {
			unavailable(w, "database not configured")
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			unavailable(w, "database handle error")
			return
		}
		if err := sqlDB.Ping(); err != nil {
			unavailable(w, "database unreachable")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}
}

func unavailable(w http.ResponseWriter, detail string) {
	models.WriteProblem(w, http.StatusServiceUnavailable, "Service Unavailable", detail, nil)
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
