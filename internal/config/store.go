package config

import (
	"sync"
	"sync/atomic"
)

// Store holds the active configuration and notifies subscribers when it
// is replaced. Get is safe from any goroutine.
type Store struct {
	current atomic.Pointer[Config]

	mu     sync.RWMutex
	subs   map[uint64]func(*Config)
	nextID uint64
}

// NewStore creates a store holding cfg.
func NewStore(cfg *Config) *Store {
	s := &Store{subs: make(map[uint64]func(*Config))}
	s.current.Store(cfg)
	return s
}

// Get returns the active configuration.
func (s *Store) Get() *Config {
	return s.current.Load()
}

// Set replaces the active configuration and calls every subscriber with
// it. Subscribers run on the caller's goroutine.
func (s *Store) Set(cfg *Config) {
	s.current.Store(cfg)

	s.mu.RLock()
	subs := make([]func(*Config), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(cfg)
	}
}

// Subscribe registers fn for future Set calls. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(*Config)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
