package kv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.Get("missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get("k")

	if err != nil || got != "v1" {
		t.Fatalf("get = %q, %v", got, err)
	}

	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, _ = s.Get("k")

	if got != "v2" {
		t.Fatalf("expected overwrite, got %q", got)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.Get("k"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}

	// deleting a missing key is not an error
	if err := s.Delete("k"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFileStore(dir)

	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, err := s.Get("angola_user"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Set("angola_user", `{"id":"2"}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get("angola_user")

	if err != nil || got != `{"id":"2"}` {
		t.Fatalf("get = %q, %v", got, err)
	}

	if err := s.Delete("angola_user"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.Get("angola_user"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}

	if err := s.Delete("angola_user"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewFileStore(dir)

	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s1.Set("angola_token", "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	s2, err := NewFileStore(dir)

	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	got, err := s2.Get("angola_token")

	if err != nil || got != "tok-1" {
		t.Fatalf("value must survive reopen: %q, %v", got, err)
	}
}

func TestFileStore_KeepsTraversalKeysInsideDir(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFileStore(dir)

	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Set("../escape", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape")); err == nil {
		t.Fatalf("value escaped the store directory")
	}

	got, err := s.Get("../escape")

	if err != nil || got != "x" {
		t.Fatalf("sanitized key must still round-trip: %q, %v", got, err)
	}
}
