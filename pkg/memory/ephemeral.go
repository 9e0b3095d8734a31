// Package memory keeps short-lived values such as per-session conversations.
package memory

import (
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("key not found or expired")

type entry[T any] struct {
	value      T
	expiration time.Time
}

// EphemeralStore is a TTL map safe for concurrent use.
type EphemeralStore[T any] struct {
	data map[string]entry[T]
	mu   sync.RWMutex
	now  func() time.Time
}

func NewEphemeralStore[T any]() *EphemeralStore[T] {
	return &EphemeralStore[T]{
		data: make(map[string]entry[T]),
		now:  time.Now,
	}
}

func (s *EphemeralStore[T]) Set(key string, value T, expiration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry[T]{
		value:      value,
		expiration: s.now().Add(expiration),
	}
}

func (s *EphemeralStore[T]) Get(key string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || s.now().After(e.expiration) {
		var zero T
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Touch pushes the expiry of a live entry forward.
func (s *EphemeralStore[T]) Touch(key string, expiration time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok || s.now().After(e.expiration) {
		return false
	}
	e.expiration = s.now().Add(expiration)
	s.data[key] = e
	return true
}

func (s *EphemeralStore[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Sweep drops expired entries and returns how many were removed.
func (s *EphemeralStore[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for k, e := range s.data {
		if now.After(e.expiration) {
			delete(s.data, k)
			n++
		}
	}
	return n
}

func (s *EphemeralStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
