package keystore

import (
	"sync"
	"time"
)

// MemStore es un Store en memoria para tests y para correr sin disco.
// Mismo comportamiento que FSStore menos la persistencia.
type MemStore struct {
	master string

	mu   sync.RWMutex
	keys map[string]Record

	// FailCreate fuerza ErrStorage en Create; simula disco roto en tests.
	FailCreate bool
}

// NewMemStore crea un store vacío en memoria.
func NewMemStore(masterKey string) *MemStore {
	return &MemStore{master: masterKey, keys: make(map[string]Record)}
}

// Validate implementa Store.
func (s *MemStore) Validate(presented string) Validation {
	if presented == "" {
		return Validation{}
	}
	if s.master != "" && presented == s.master {
		return Validation{IsMaster: true}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.keys[presented]; ok {
		return Validation{IsConsumer: true, Record: &rec}
	}
	return Validation{}
}

// Create implementa Store.
func (s *MemStore) Create(name string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreate {
		return Record{}, ErrStorage
	}
	rec := Record{Key: newKey(), Name: name, CreatedAt: time.Now().UTC()}
	s.keys[rec.Key] = rec
	return rec, nil
}

// List implementa Store.
func (s *MemStore) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.keys))
	for _, rec := range s.keys {
		out = append(out, Entry{Name: rec.Name, CreatedAt: rec.CreatedAt})
	}
	return out
}
