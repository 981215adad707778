package reactive

import "sync"

// Derived is a memoized value recomputed from its dependencies.
// It recomputes eagerly whenever any dependency notifies, so Get is always
// consistent with the latest dependency values once the triggering Set
// returns. Derived is itself a Source, so derived values can chain.
type Derived[T any] struct {
	mu      sync.Mutex
	compute func() T
	value   T
	subs    []subscriber[T]
	nextID  int
	stops   []func()
}

// Derive creates a Derived value computed by compute, recomputed whenever
// one of deps changes. compute runs once immediately to seed the value.
func Derive[T any](compute func() T, deps ...Source) *Derived[T] {
	d := &Derived[T]{compute: compute}
	d.value = compute()
	for _, dep := range deps {
		d.stops = append(d.stops, dep.Watch(d.refresh))
	}
	return d
}

// Get returns the memoized value.
func (d *Derived[T]) Get() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Subscribe registers fn to receive every recomputed value.
// It returns an unsubscribe function.
func (d *Derived[T]) Subscribe(fn func(T)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.subs = append(d.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, s := range d.subs {
			if s.id == id {
				d.subs = append(d.subs[:i], d.subs[i+1:]...)
				break
			}
		}
	}
}

// Watch implements Source.
func (d *Derived[T]) Watch(fn func()) func() {
	return d.Subscribe(func(T) { fn() })
}

// Close detaches the Derived from its dependencies. Get keeps returning the
// last computed value.
func (d *Derived[T]) Close() {
	for _, stop := range d.stops {
		stop()
	}
	d.stops = nil
}

// refresh recomputes and notifies. compute runs outside the lock because it
// typically reads other Refs that hold their own locks.
func (d *Derived[T]) refresh() {
	v := d.compute()

	d.mu.Lock()
	d.value = v
	subs := make([]subscriber[T], len(d.subs))
	copy(subs, d.subs)
	d.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}
