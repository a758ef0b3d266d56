package store

import (
	"context"
	"sync"
	"time"

	"github.com/hypd/shortlink/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu       sync.Mutex
	mappings map[string]*shortener.Mapping
}

// NewMemoryStore creates a new in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mappings: make(map[string]*shortener.Mapping),
	}
}

func (s *MemoryStore) Insert(_ context.Context, m *shortener.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mappings[m.Code]; ok {
		return shortener.ErrCodeTaken
	}

	s.mappings[m.Code] = clone(m)

	return nil
}

func (s *MemoryStore) GetByCode(_ context.Context, code string) (*shortener.Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mappings[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return clone(m), nil
}

func (s *MemoryStore) RecordClick(_ context.Context, code string, at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mappings[code]
	if !ok {
		return "", shortener.ErrNotFound
	}

	m.ClickCount++

	t := at
	m.LastAccessed = &t
	m.LastClick = &t

	if m.FirstClick == nil {
		m.FirstClick = &t
	}

	return m.OriginalURL, nil
}

// clone deep-copies a mapping so callers never share mutable state with the
// store.
func clone(m *shortener.Mapping) *shortener.Mapping {
	c := *m

	if m.FirstClick != nil {
		t := *m.FirstClick
		c.FirstClick = &t
	}

	if m.LastClick != nil {
		t := *m.LastClick
		c.LastClick = &t
	}

	if m.LastAccessed != nil {
		t := *m.LastAccessed
		c.LastAccessed = &t
	}

	if m.Product != nil {
		p := *m.Product
		c.Product = &p
	}

	return &c
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
