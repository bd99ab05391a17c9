package application

import (
	"sync"
	"sync/atomic"
)

// subscription is one registered callback. active is cleared on cancel so a
// publish already in progress skips it.
type subscription[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// observers fans values out to subscribers in registration order. publish is
// only called from the main queue.
type observers[T any] struct {
	mu   sync.Mutex
	subs []*subscription[T]
}

func newSubscription[T any](fn func(T)) *subscription[T] {
	s := &subscription[T]{fn: fn}
	s.active.Store(true)
	return s
}

func (o *observers[T]) add(s *subscription[T]) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !s.active.Load() {
		return
	}
	o.subs = append(o.subs, s)
}

func (o *observers[T]) remove(s *subscription[T]) {
	s.active.Store(false)

	o.mu.Lock()
	defer o.mu.Unlock()

	for i, sub := range o.subs {
		if sub == s {
			o.subs = append(o.subs[:i], o.subs[i+1:]...)
			return
		}
	}
}

func (o *observers[T]) publish(v T) {
	o.mu.Lock()
	subs := append([]*subscription[T](nil), o.subs...)
	o.mu.Unlock()

	for _, s := range subs {
		if s.active.Load() {
			s.fn(v)
		}
	}
}

func (o *observers[T]) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}
