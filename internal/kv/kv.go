// Package kv defines the key/value persistence port shared by the
// dependency graph and component records.
//
// The port deliberately exposes Update as a single read-modify-write unit:
// call sites never interleave their own Get/Set pairs, so a future backend
// can add file locking or transactions without touching callers. The
// current backends provide atomicity per document (a reader never observes
// a half-written value) but no cross-process serialization; concurrent
// invocations race with last-write-wins semantics, which is the contract
// the calling tool relies on today.
package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// UpdateFunc transforms the current value of a key. A nil input means the
// key is absent. Returning an error aborts the update without writing.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is the persistence port. Implementations never retry; retry policy
// belongs to the caller.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key, replacing any previous value in full.
	Set(ctx context.Context, key string, value []byte) error

	// Update applies fn to the current value of key as one
	// read-modify-write unit and persists the result.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
