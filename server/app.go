package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"flock/config"
	"flock/internal/api"
	"flock/internal/auth"
	"flock/internal/db"
	"flock/internal/health"
	"flock/internal/logs"
	"flock/internal/middleware"
	"flock/internal/models"
	"flock/internal/obs"
	"flock/internal/repo"
	"flock/internal/session"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB (в development опциональна) */
	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		a.db = d

		if err := a.db.AutoMigrate(
			&models.Account{},
			&models.Profile{},
			&models.Group{},
			&models.GroupMembership{},
			&models.Event{},
			&models.VolunteerSignup{},
			&models.PrayerRequest{},
			&models.CareAssignment{},
			&models.Announcement{},
		); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
	}

	/* 3) Токены. В development пустые секреты заменяются случайными
	   одноразовыми: сессии не переживут рестарт, о чём и предупреждаем. */
	accessSecret := a.cfg.Auth.AccessSecret
	refreshSecret := a.cfg.Auth.RefreshSecret
	if !a.cfg.IsProduction() {
		if accessSecret == "" {
			accessSecret = ephemeralSecret()
			logs.Logger.Warn("auth.access_secret not set; using ephemeral secret, sessions will not survive restart")
		}
		if refreshSecret == "" {
			refreshSecret = ephemeralSecret()
			logs.Logger.Warn("auth.refresh_secret not set; using ephemeral secret, sessions will not survive restart")
		}
	}
	tokens, err := auth.NewTokenService(accessSecret, refreshSecret,
		auth.WithTTL(
			time.Duration(a.cfg.Auth.AccessTTLHours)*time.Hour,
			time.Duration(a.cfg.Auth.RefreshTTLHours)*time.Hour,
		))
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	/* 4) Router + middleware */
	obs.Init()
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
		middleware.CORS(a.cfg.CORS.AllowedOrigins),
		obs.Instrument,
	)

	// Методные маршруты (.Methods("POST") и т.п.) не матчат OPTIONS,
	// а Router.Use срабатывает только на сматченных маршрутах. Без
	// catch-all браузерный preflight получал бы 404 мимо CORS.
	a.Router.PathPrefix("/").Methods(http.MethodOptions).
		HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

	/* 5) Health + метрики */
	if a.db != nil {
		health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz
	} else {
		health.RegisterRoutes(a.Router) // только /healthz
	}
	a.Router.Handle("/metrics", obs.Handler()).Methods(http.MethodGet)

	/* 6) Доменные маршруты — только при подключённой БД */
	if a.db != nil {
		accounts := repo.NewAccountStore(a.db)

		// rate limit на /api/auth включается вне development
		var limit mux.MiddlewareFunc
		if a.cfg.IsProduction() {
			limit = middleware.RateLimit(a.cfg.RateLimit.AuthRPS, a.cfg.RateLimit.AuthBurst)
		}
		session.RegisterRoutes(a.Router,
			session.New(accounts, tokens, a.cfg.IsProduction()), limit)

		api.Attach(a.Router, api.Dependencies{
			Accounts:      accounts,
			Groups:        repo.NewGroupStore(a.db),
			Events:        repo.NewEventStore(a.db),
			Prayers:       repo.NewPrayerStore(a.db),
			Care:          repo.NewCareStore(a.db),
			Announcements: repo.NewAnnouncementStore(a.db),
			Reports:       repo.NewReportStore(a.db),
		}, middleware.Auth(tokens, accounts))
	} else {
		logs.Logger.Warn("database not configured; serving health and metrics only")
	}

	/* (необязательно) вывести известные маршруты в лог при старте */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func ephemeralSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("secret generation failed: %v", err)
	}
	return hex.EncodeToString(buf)
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Жёсткие таймауты — это важно для production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
