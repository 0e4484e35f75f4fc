package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/embaixada-angola/studentportal/internal/auth"
	"github.com/embaixada-angola/studentportal/internal/config"
	"github.com/embaixada-angola/studentportal/internal/http/handlers"
	"github.com/embaixada-angola/studentportal/internal/http/middlewares"
	"github.com/embaixada-angola/studentportal/internal/observability"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Deps carries everything the router wires together. Repos arrive as the
// small interfaces the handlers declare, so postgres and memory backends
// are interchangeable.
type Deps struct {
	Cfg config.Config
	Log *slog.Logger
	JWT *auth.Manager

	Users interface {
		handlers.UserReader
		handlers.UserWriter
		handlers.UsersStore
		handlers.StudentsCounter
	}
	Documents interface {
		handlers.DocumentsStore
		handlers.DocumentsCounter
	}
	Announcements handlers.AnnouncementsStore
	Appointments  handlers.AppointmentsStore

	Queue     handlers.JobEnqueuer
	QueueName string

	Prom     *observability.Prom
	Registry *prometheus.Registry

	// Ping reports backend readiness, nil means always ready.
	Ping func() error
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("studentportal-api"))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health and metrics stay outside auth
	health := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	authMW := middlewares.NewAuthMiddleware(d.JWT)

	authHandler := handlers.NewAuthHandler(d.Users, d.Users, d.JWT, d.Queue, d.QueueName)
	usersHandler := handlers.NewUsersHandler(d.Users)
	documentsHandler := handlers.NewDocumentsHandler(d.Documents, d.Queue, d.QueueName)
	announcementsHandler := handlers.NewAnnouncementsHandler(d.Announcements)
	appointmentsHandler := handlers.NewAppointmentsHandler(d.Appointments)
	statsHandler := handlers.NewStatsHandler(d.Users, d.Documents)
	navigationHandler := handlers.NewNavigationHandler()

	// login gets its own tight limit against password guessing
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)
	apiLimiter := middlewares.NewRateLimiter(120, time.Minute)

	authGroup := r.Group("/auth")
	authGroup.Use(loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	api := r.Group("/")
	api.Use(authMW.RequireAuth())
	api.Use(apiLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))
	{
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/me", usersHandler.Me)
		api.PATCH("/users/:id", usersHandler.Update)

		api.GET("/navigation", navigationHandler.Menu)

		api.POST("/documents", documentsHandler.Create)
		api.GET("/documents", documentsHandler.List)
		api.GET("/documents/:id", documentsHandler.GetByID)
		api.PATCH("/documents/:id/status", authMW.RequireRole("admin"), documentsHandler.UpdateStatus)

		api.GET("/announcements", announcementsHandler.List)
		api.GET("/announcements/:id", announcementsHandler.GetByID)
		api.POST("/announcements", authMW.RequireRole("admin"), announcementsHandler.Create)

		api.POST("/appointments", appointmentsHandler.Create)
		api.GET("/appointments", appointmentsHandler.List)
		api.GET("/appointments/:id", appointmentsHandler.GetByID)

		admin := api.Group("/admin")
		admin.Use(authMW.RequireRole("admin"))
		{
			admin.GET("/stats", statsHandler.Dashboard)
		}
	}

	return r
}

// PingPool adapts a pool-style Ping(ctx) to the health handler's closure.
func PingPool(p interface{ Ping(context.Context) error }) func() error {
	return func() error {
		if p == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return p.Ping(ctx)
	}
}
