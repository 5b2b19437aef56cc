/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Store is the registry state: a key-value table with transactional apply.
// Registries never touch it directly; every call runs against a Txn that is
// committed or discarded as a whole.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore creates an empty state table.
func NewStore() *Store {
	return &Store{data: map[string][]byte{}}
}

// Begin opens a transactional view over the store.
func (s *Store) Begin() *Txn {
	return &Txn{
		store:   s,
		writes:  map[string][]byte{},
		deletes: map[string]struct{}{},
	}
}

func (s *Store) get(key string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data[key]
}

// Txn is a copy-on-write overlay. Reads see the overlay first, then the
// underlying store. Nothing reaches the store until Commit.
type Txn struct {
	store   *Store
	writes  map[string][]byte
	deletes map[string]struct{}
}

// Get returns the value for key, or nil when absent.
func (t *Txn) Get(key string) []byte {
	if _, ok := t.deletes[key]; ok {
		return nil
	}
	if v, ok := t.writes[key]; ok {
		return v
	}

	return t.store.get(key)
}

// Has reports whether key holds a value.
func (t *Txn) Has(key string) bool {
	return t.Get(key) != nil
}

// Put stages a write.
func (t *Txn) Put(key string, value []byte) {
	delete(t.deletes, key)
	t.writes[key] = value
}

// Delete stages a removal.
func (t *Txn) Delete(key string) {
	delete(t.writes, key)
	t.deletes[key] = struct{}{}
}

// Commit applies all staged changes atomically.
func (t *Txn) Commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for key := range t.deletes {
		delete(t.store.data, key)
	}
	for key, value := range t.writes {
		t.store.data[key] = value
	}

	t.writes = map[string][]byte{}
	t.deletes = map[string]struct{}{}
}

// GetJSON reads a JSON-encoded record into v. It returns false when the key
// is absent.
func GetJSON(txn *Txn, key string, v interface{}) (bool, error) {
	data := txn.Get(key)
	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode state record %q: %w", key, err)
	}

	return true, nil
}

// PutJSON stores v under key as JSON.
func PutJSON(txn *Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode state record %q: %w", key, err)
	}

	txn.Put(key, data)

	return nil
}
