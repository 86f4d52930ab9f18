// SPDX-License-Identifier: MIT

// Package handoff hands buffers across an ownership boundary by opaque handle.
//
// A producer stores a value with Put and passes the returned Handle to the
// consumer. The consumer borrows the value with Get (no copy) for as long as
// it needs and then calls Release exactly once; after that, the handle is dead.
//
// Handles are never reused. Releasing the null handle, or a handle already
// released, is a no-op; releasing a handle never issued is an error.
package handoff

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownHandle indicates a handle the registry never issued.
	ErrUnknownHandle = errors.New("handoff: unknown handle")

	// ErrReleased indicates use of a handle after Release.
	ErrReleased = errors.New("handoff: handle already released")

	// ErrTypeMismatch indicates Get asked for a type other than the stored one.
	ErrTypeMismatch = errors.New("handoff: stored value has a different type")
)

// Handle is an opaque reference to a registered value. Zero is the null handle.
type Handle uint64

// Null is the handle that refers to nothing.
const Null Handle = 0

// Registry owns handed-off values until they are released.
// It is safe for concurrent use.
type Registry struct {
	mu   sync.Mutex
	last Handle
	live map[Handle]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[Handle]any)}
}

// Put registers v and returns its fresh, non-null handle.
func (r *Registry) Put(v any) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last++
	r.live[r.last] = v

	return r.last
}

// lookup returns the value behind h or the reason it is unavailable.
func (r *Registry) lookup(h Handle) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.live[h]; ok {
		return v, nil
	}
	if h == Null || h > r.last {
		return nil, fmt.Errorf("handle %d: %w", h, ErrUnknownHandle)
	}

	return nil, fmt.Errorf("handle %d: %w", h, ErrReleased)
}

// Get borrows the value behind h as a T.
func Get[T any](r *Registry, h Handle) (T, error) {
	var zero T
	v, err := r.lookup(h)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("handle %d holds %T, want %T: %w", h, v, zero, ErrTypeMismatch)
	}

	return t, nil
}

// Release drops the registry's reference to the value behind h.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == Null {
		return nil
	}
	if h > r.last {
		return fmt.Errorf("handle %d: %w", h, ErrUnknownHandle)
	}
	delete(r.live, h)

	return nil
}

// Outstanding returns the number of values not yet released.
func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.live)
}
