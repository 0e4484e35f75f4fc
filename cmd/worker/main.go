package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/embaixada-angola/studentportal/internal/config"
	"github.com/embaixada-angola/studentportal/internal/db"
	"github.com/embaixada-angola/studentportal/internal/notifications"
	"github.com/embaixada-angola/studentportal/internal/observability"
	"github.com/embaixada-angola/studentportal/internal/queue/redisclient"
	"github.com/embaixada-angola/studentportal/internal/queue/worker"
	"github.com/embaixada-angola/studentportal/internal/repo/memory"
	"github.com/embaixada-angola/studentportal/internal/repo/postgres"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}

	var users worker.UsersReader

	if cfg.Storage == "memory" {
		repo, err := memory.NewUsersRepoWithDefaults()

		if err != nil {
			log.Error("seed memory users failed", "err", err)
			os.Exit(1)
		}

		users = repo
	} else {
		pool, err := db.NewPool(cfg.DBURL)

		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}

		defer pool.Close()

		users = postgres.NewUsersRepo(pool)
	}

	w := worker.New(worker.Config{
		Queue:       redisclient.DefaultQueue,
		PollTimeout: 5 * time.Second,
	}, redisClient, users, notifications.NewLogNotifier(log), log)

	log.Info("worker started", "queue", redisclient.DefaultQueue)

	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped with error", "err", err)
	}

	log.Info("worker shutdown complete")
}
