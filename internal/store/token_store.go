// Package store keeps reconciliation results in memory, addressable by token.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"deal-rebilling/internal/domain"
)

const (
	DefaultTTL        = time.Hour
	DefaultMaxEntries = 100
)

// Options bound the store.
type Options struct {
	TTL        time.Duration
	MaxEntries int
}

// entry is one stored result together with its rendered exports.
type entry struct {
	result *domain.ReconciliationResult

	mu      sync.Mutex
	exports map[domain.ExportFormat][]byte
}

// TokenStore is a bounded, expiring map of results. The least recently used
// entry is evicted when the store is full.
type TokenStore struct {
	cache *expirable.LRU[string, *entry]
}

// New creates a store; zero options fall back to the defaults.
func New(opts Options) *TokenStore {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	return &TokenStore{
		cache: expirable.NewLRU[string, *entry](opts.MaxEntries, nil, opts.TTL),
	}
}

// Save stores the result under a new opaque token.
func (s *TokenStore) Save(result *domain.ReconciliationResult) (string, error) {
	token := uuid.NewString()
	s.cache.Add(token, &entry{
		result:  result,
		exports: make(map[domain.ExportFormat][]byte),
	})
	return token, nil
}

// Load returns the stored result or domain.ErrUnknownToken.
func (s *TokenStore) Load(token string) (*domain.ReconciliationResult, error) {
	e, ok := s.cache.Get(token)
	if !ok {
		return nil, domain.ErrUnknownToken
	}
	return e.result, nil
}

// Export returns the rendering of a stored result. The first successful
// render of a (token, format) pair is kept and returned on every later call.
func (s *TokenStore) Export(token string, format domain.ExportFormat, render func(*domain.ReconciliationResult) ([]byte, error)) ([]byte, error) {
	e, ok := s.cache.Get(token)
	if !ok {
		return nil, domain.ErrUnknownToken
	}

	e.mu.Lock()
	if data, ok := e.exports[format]; ok {
		e.mu.Unlock()
		return data, nil
	}
	e.mu.Unlock()

	// Rendering runs unlocked; a concurrent render of the same pair may finish
	// first, in which case its bytes win.
	data, err := render(e.result)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.exports[format]; ok {
		return cached, nil
	}
	e.exports[format] = data
	return data, nil
}

// Len is the number of live entries.
func (s *TokenStore) Len() int {
	return len(s.cache.Keys())
}
