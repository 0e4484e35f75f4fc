package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/jobs"
	"github.com/embaixada-angola/studentportal/internal/notifications"
	"github.com/embaixada-angola/studentportal/internal/queue/redisclient"
)

// Queue is the subset of the redis client the worker needs.
type Queue interface {
	Enqueue(ctx context.Context, queue string, j jobs.Job) error
	Dequeue(ctx context.Context, queue string, timeout time.Duration) (jobs.Job, error)
}

// UsersReader loads recipient details for a queued notification.
type UsersReader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type Config struct {
	Queue       string
	PollTimeout time.Duration
}

type Worker struct {
	cfg      Config
	queue    Queue
	users    UsersReader
	notifier notifications.Notifier
	log      *slog.Logger
}

func New(cfg Config, queue Queue, users UsersReader, notifier notifications.Notifier, log *slog.Logger) *Worker {
	if cfg.Queue == "" {
		cfg.Queue = redisclient.DefaultQueue
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	return &Worker{
		cfg:      cfg,
		queue:    queue,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal")
			return nil
		default:
		}

		processed, err := w.ProcessOne(ctx)

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.log.Error("worker step failed", "err", err)
			// connection trouble most likely, do not spin
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		_ = processed
	}
}

// ProcessOne pops a single job and executes it. Failed jobs are requeued with
// backoff until MaxTries, then dropped with a log line.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	j, err := w.queue.Dequeue(ctx, w.cfg.Queue, w.cfg.PollTimeout)

	if err != nil {
		if errors.Is(err, redisclient.ErrQueueEmpty) {
			return false, nil
		}
		return false, err
	}

	w.log.Info("job claimed", "job_id", j.ID, "type", j.Type, "attempt", j.Attempts)

	if err := w.execute(ctx, j); err != nil {
		w.handleFailure(ctx, j, err)
		return true, nil
	}

	w.log.Info("job done", "job_id", j.ID, "type", j.Type)
	return true, nil
}

func (w *Worker) execute(ctx context.Context, j jobs.Job) error {
	payload, err := jobs.DecodePayload(j)

	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case jobs.DocumentStatusChangedPayload:
		u, err := w.users.GetByID(ctx, p.UserID)

		if err != nil {
			return err
		}

		return w.notifier.SendDocumentStatusUpdate(ctx, notifications.DocumentStatusInput{
			Email:      u.Email,
			Nome:       u.Nome,
			DocumentID: p.DocumentID,
			Status:     p.Status,
		})

	case jobs.SendWelcomePayload:
		return w.notifier.SendWelcome(ctx, notifications.WelcomeInput{
			Email: p.Email,
			Nome:  p.Nome,
		})

	default:
		return jobs.ErrInvalidJobType
	}
}

func (w *Worker) handleFailure(ctx context.Context, j jobs.Job, cause error) {
	j.Attempts++
	msg := cause.Error()
	j.LastError = &msg

	if j.Attempts >= j.MaxTries {
		w.log.Error("job dropped after max tries",
			"job_id", j.ID, "type", j.Type, "attempts", j.Attempts, "err", cause)
		return
	}

	delay := ExponentialBackoff(j.Attempts - 1)

	w.log.Warn("job failed, requeueing",
		"job_id", j.ID, "type", j.Type, "attempts", j.Attempts, "retry_in", delay, "err", cause)

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}

	if err := w.queue.Enqueue(ctx, w.cfg.Queue, j); err != nil {
		w.log.Error("requeue failed", "job_id", j.ID, "err", err)
	}
}
