package live

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// State is an observable value. Setting an equal value does not notify.
type State[T comparable] struct {
	mu    sync.RWMutex
	value T
	subs  map[string]chan struct{}
}

func NewState[T comparable](initial T) *State[T] {
	return &State[T]{
		value: initial,
		subs:  make(map[string]chan struct{}),
	}
}

func (s *State[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores v and reports whether it differed from the previous value.
func (s *State[T]) Set(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(v)
}

// Update replaces the value with fn(current) atomically.
func (s *State[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(fn(s.value))
}

func (s *State[T]) setLocked(v T) bool {
	if s.value == v {
		return false
	}
	s.value = v
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return true
}

// Changes returns a coalescing signal channel fired after every change.
func (s *State[T]) Changes(ctx context.Context) <-chan struct{} {
	token := uuid.NewString()
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.subs[token] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, token)
		s.mu.Unlock()
	}()
	return ch
}

// Observe emits the current value and then every new value until ctx ends.
// Intermediate values may be skipped when the reader falls behind.
func (s *State[T]) Observe(ctx context.Context) <-chan T {
	out := make(chan T, 1)
	changes := s.Changes(ctx)

	go func() {
		defer close(out)
		last := s.Get()
		emitLatest(out, last)
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				if v := s.Get(); v != last {
					last = v
					emitLatest(out, v)
				}
			}
		}
	}()
	return out
}

// emitLatest replaces any unread value in out with v. out must have a
// buffer of one and a single writer.
func emitLatest[T any](out chan T, v T) {
	select {
	case <-out:
	default:
	}
	out <- v
}
