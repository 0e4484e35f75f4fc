package kv

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, namespace string, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, namespace, ttl), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	s, _ := newRedisStore(t, "session", 0)

	if _, err := s.Get("angola_user"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Set("angola_user", `{"id":"1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get("angola_user")

	if err != nil || got != `{"id":"1"}` {
		t.Fatalf("get = %q, %v", got, err)
	}

	if err := s.Delete("angola_user"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.Get("angola_user"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestRedisStore_NamespacesKeys(t *testing.T) {
	s, mr := newRedisStore(t, "client42", 0)

	if err := s.Set("angola_token", "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if !mr.Exists("client42:angola_token") {
		t.Fatalf("expected namespaced key in redis, have %v", mr.Keys())
	}

	// a second namespace does not see the value
	other := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "client43", 0)

	if _, err := other.Get("angola_token"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("namespaces must be isolated, got %v", err)
	}
}

func TestRedisStore_TTL(t *testing.T) {
	s, mr := newRedisStore(t, "s", time.Minute)

	if err := s.Set("angola_token", "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if mr.TTL("s:angola_token") != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", mr.TTL("s:angola_token"))
	}

	mr.FastForward(2 * time.Minute)

	if _, err := s.Get("angola_token"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expired key must read as missing, got %v", err)
	}
}
