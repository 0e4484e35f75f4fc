package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/embaixada-angola/studentportal/internal/jobs"
)

// DefaultQueue is the Redis list the API pushes jobs onto and the worker
// drains.
const DefaultQueue = "portal:jobs"

var ErrQueueEmpty = errors.New("queue empty")

type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// Raw exposes the underlying client for callers that need more than the
// queue surface (the session KV store reuses this connection).
func (c *Client) Raw() *redis.Client {
	return c.redisdb
}

// Enqueue pushes a job to the tail of the queue.
func (c *Client) Enqueue(ctx context.Context, queue string, j jobs.Job) error {
	b, err := json.Marshal(j)

	if err != nil {
		return err
	}

	return c.redisdb.RPush(ctx, queue, b).Err()
}

// Dequeue blocks up to timeout waiting for a job at the head of the queue.
// Returns ErrQueueEmpty when the timeout expires with nothing to do.
func (c *Client) Dequeue(ctx context.Context, queue string, timeout time.Duration) (jobs.Job, error) {
	res, err := c.redisdb.BLPop(ctx, timeout, queue).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return jobs.Job{}, ErrQueueEmpty
		}
		return jobs.Job{}, err
	}

	// BLPop returns [key, value]
	if len(res) != 2 {
		return jobs.Job{}, ErrQueueEmpty
	}

	var j jobs.Job

	if err := json.Unmarshal([]byte(res[1]), &j); err != nil {
		return jobs.Job{}, err
	}

	return j, nil
}
