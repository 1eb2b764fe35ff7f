// Package observer provides a fan-out registry that holds its observers
// weakly. Registering an observer never extends its lifetime: once the
// caller drops its last reference the entry is pruned on the next Notify.
package observer

import (
	"slices"
	"sync"
	"weak"
)

// Observer receives events of type E.
type Observer[E any] interface {
	Notify(e E)
}

// Func adapts a plain function to Observer. Register a pointer to a Func
// variable and keep that variable alive for as long as events are wanted.
type Func[E any] func(E)

// Notify calls f(e).
func (f *Func[E]) Notify(e E) { (*f)(e) }

type entry[E any] struct {
	key     any
	resolve func() Observer[E]
	removed bool
}

// Registry is a set of weakly-held observers keyed by pointer identity.
// The zero value is ready to use.
type Registry[E any] struct {
	mu      sync.Mutex
	entries []*entry[E]
	index   map[any]*entry[E]
}

// Subscribe registers obs with r. Subscribing the same pointer twice is a
// no-op.
func Subscribe[E any, T any, P interface {
	*T
	Observer[E]
}](r *Registry[E], obs P) {
	if obs == nil {
		return
	}
	wp := weak.Make((*T)(obs))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index == nil {
		r.index = make(map[any]*entry[E])
	}
	if _, ok := r.index[wp]; ok {
		return
	}
	e := &entry[E]{
		key: wp,
		resolve: func() Observer[E] {
			p := wp.Value()
			if p == nil {
				return nil
			}
			return P(p)
		},
	}
	r.entries = append(r.entries, e)
	r.index[wp] = e
}

// Unsubscribe removes obs from r. Removing an observer that was never
// registered is a no-op. An observer removed while Notify is running does
// not receive the event if it had not been reached yet.
func Unsubscribe[E any, T any, P interface {
	*T
	Observer[E]
}](r *Registry[E], obs P) {
	if obs == nil {
		return
	}
	wp := weak.Make((*T)(obs))

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.index[wp]; ok {
		r.removeLocked(e)
	}
}

// Notify delivers e to every live observer in registration order. The set
// is snapshotted first, so observers may subscribe or unsubscribe from
// inside their Notify.
func (r *Registry[E]) Notify(e E) {
	r.mu.Lock()
	snapshot := slices.Clone(r.entries)
	r.mu.Unlock()

	for _, en := range snapshot {
		r.mu.Lock()
		removed := en.removed
		r.mu.Unlock()
		if removed {
			continue
		}

		obs := en.resolve()
		if obs == nil {
			r.mu.Lock()
			r.removeLocked(en)
			r.mu.Unlock()
			continue
		}
		obs.Notify(e)
	}
}

// Len returns the number of registered entries, including entries whose
// observer has been collected but not yet pruned.
func (r *Registry[E]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Prune drops entries whose observer has been collected and returns how
// many were removed.
func (r *Registry[E]) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, en := range slices.Clone(r.entries) {
		if en.resolve() == nil {
			r.removeLocked(en)
			n++
		}
	}
	return n
}

func (r *Registry[E]) removeLocked(e *entry[E]) {
	if e.removed {
		return
	}
	e.removed = true
	delete(r.index, e.key)
	r.entries = slices.DeleteFunc(r.entries, func(x *entry[E]) bool { return x == e })
}
