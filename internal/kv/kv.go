// Package kv defines the durable key-value contract the session store
// persists through, plus the three backing implementations the portal uses:
// process memory (tests), a local file (single-device clients), and Redis.
package kv

import "errors"

var ErrKeyNotFound = errors.New("kv: key not found")

// Store is a tiny durable key-value surface. Writes are atomic at the
// granularity of a single key; Delete of an absent key is not an error.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
