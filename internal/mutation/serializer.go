// Package mutation serializes writes against the same logical item.
// Mutations on different keys run concurrently; mutations on one key run
// one at a time, so two rapid edits to the same row cannot interleave.
package mutation

import (
	"fmt"
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedSerializer runs at most one function per key at a time. Idle keys
// hold no memory.
type KeyedSerializer struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewKeyedSerializer() *KeyedSerializer {
	return &KeyedSerializer{
		entries: make(map[string]*entry),
	}
}

// Do runs fn while holding the lock for key.
func (s *KeyedSerializer) Do(key string, fn func() error) error {
	e := s.acquire(key)
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		s.release(key)
	}()
	return fn()
}

func (s *KeyedSerializer) acquire(key string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	e.refs++
	return e
}

func (s *KeyedSerializer) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(s.entries, key)
	}
}

// ItemKey builds the serialization key for one row of a table.
func ItemKey(kind string, id uint64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// OwnerKey builds the serialization key for an owner-scoped operation that
// has no row yet, such as find-or-create by label.
func OwnerKey(kind string, userID uint64, qualifier string) string {
	return fmt.Sprintf("%s:%d:%s", kind, userID, qualifier)
}
