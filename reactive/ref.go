// Package reactive provides the small observable primitives the refract
// helpers are built on: a mutable cell (Ref) and a memoized value derived
// from other cells (Derived). Helpers receive these by injection; there is
// no package-level registry or ambient runtime.
package reactive

import "sync"

// Source is anything a Derived value can depend on.
type Source interface {
	// Watch registers fn to be called after every change.
	// The returned function removes the registration.
	Watch(fn func()) func()
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Ref is an observable cell holding a value of type T.
type Ref[T any] struct {
	mu     sync.Mutex
	value  T
	subs   []subscriber[T]
	nextID int
}

// NewRef creates a Ref holding initial.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{value: initial}
}

// Get returns the current value.
func (r *Ref[T]) Get() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Set stores v and notifies subscribers in subscription order.
// Subscribers run synchronously on the calling goroutine, outside the lock.
func (r *Ref[T]) Set(v T) {
	r.mu.Lock()
	r.value = v
	subs := make([]subscriber[T], len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Update applies fn to the current value and stores the result.
func (r *Ref[T]) Update(fn func(T) T) {
	r.mu.Lock()
	v := fn(r.value)
	r.value = v
	subs := make([]subscriber[T], len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Subscribe registers fn to receive every value stored after this call.
// It returns an unsubscribe function.
func (r *Ref[T]) Subscribe(fn func(T)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.subs = append(r.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				break
			}
		}
	}
}

// Watch implements Source.
func (r *Ref[T]) Watch(fn func()) func() {
	return r.Subscribe(func(T) { fn() })
}
