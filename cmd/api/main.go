package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/embaixada-angola/studentportal/internal/auth"
	"github.com/embaixada-angola/studentportal/internal/config"
	"github.com/embaixada-angola/studentportal/internal/db"
	httpx "github.com/embaixada-angola/studentportal/internal/http"
	"github.com/embaixada-angola/studentportal/internal/observability"
	"github.com/embaixada-angola/studentportal/internal/queue/redisclient"
	"github.com/embaixada-angola/studentportal/internal/repo/memory"
	"github.com/embaixada-angola/studentportal/internal/repo/postgres"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, "studentportal-api", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(registry)

	deps := httpx.Deps{
		Cfg:       cfg,
		Log:       log,
		JWT:       auth.NewManager(cfg.JWTSecret, cfg.SessionTTL),
		QueueName: redisclient.DefaultQueue,
		Prom:      prom,
		Registry:  registry,
	}

	// queue is optional, the API degrades to synchronous-only without it
	redisClient := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		log.Warn("redis unreachable, async notifications disabled", "err", err)
	} else {
		deps.Queue = redisClient
	}

	if cfg.Storage == "memory" {
		users, err := memory.NewUsersRepoWithDefaults()

		if err != nil {
			log.Error("seed memory users failed", "err", err)
			os.Exit(1)
		}

		deps.Users = users
		deps.Documents = memory.NewDocumentsRepo()
		deps.Announcements = memory.NewAnnouncementsRepo()
		deps.Appointments = memory.NewAppointmentsRepo()
	} else {
		pool, err := db.NewPool(cfg.DBURL)

		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}

		defer pool.Close()

		if err := db.EnsureAdminUser(ctx, pool, cfg); err != nil {
			log.Error("admin seed failed", "err", err)
			os.Exit(1)
		}

		deps.Users = postgres.NewUsersRepo(pool)
		deps.Documents = postgres.NewDocumentsRepo(pool, prom)
		deps.Announcements = postgres.NewAnnouncementsRepo(pool)
		deps.Appointments = postgres.NewAppointmentsRepo(pool)
		deps.Ping = httpx.PingPool(pool)
	}

	router := httpx.NewRouter(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	log.Info("shutdown complete")
}
