package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// MemoryStore keeps records in a map. Writers are serialized; each Update
// works on an overlay that is merged into the map only when fn succeeds.
// An optional snapshot file mirrors the map after every commit.
type MemoryStore struct {
	mu       sync.RWMutex
	db       map[string][]byte
	filename string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{db: make(map[string][]byte)}
}

// NewSnapshotStore returns a memory store persisted to filename.
// An existing snapshot is loaded first.
func NewSnapshotStore(filename string) (*MemoryStore, error) {
	m := &MemoryStore{db: make(map[string][]byte), filename: filename}
	if err := m.LoadFromFile(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MemoryStore) Update(ctx context.Context, fn func(Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTxn{base: m.db, writes: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.writes) == 0 {
		return nil
	}
	for k, v := range tx.writes {
		m.db[k] = v
	}
	if m.filename != "" {
		if err := m.saveToFile(); err != nil {
			// roll the map back so memory never runs ahead of the snapshot
			for k := range tx.writes {
				if prev, ok := tx.previous[k]; ok {
					m.db[k] = prev
				} else {
					delete(m.db, k)
				}
			}
			return err
		}
	}
	return nil
}

func (m *MemoryStore) View(ctx context.Context, fn func(Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memoryTxn{base: m.db, readOnly: true})
}

func (m *MemoryStore) Close() error { return nil }

// Len reports how many records are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.db)
}

// saveToFile writes the full map to the snapshot file. Keys are hex encoded,
// values base64 (encoding/json's []byte form).
func (m *MemoryStore) saveToFile() error {
	out := make(map[string][]byte, len(m.db))
	for k, v := range m.db {
		out[hex.EncodeToString([]byte(k))] = v
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	tmp := m.filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, m.filename); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// LoadFromFile loads the map from the snapshot file. A missing file is not an error.
func (m *MemoryStore) LoadFromFile() error {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading snapshot: %w", err)
	}
	var in map[string][]byte
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decoding snapshot %s: %w", m.filename, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range in {
		key, err := hex.DecodeString(k)
		if err != nil {
			return fmt.Errorf("decoding snapshot key %q: %w", k, err)
		}
		m.db[string(key)] = v
	}
	return nil
}

type memoryTxn struct {
	base     map[string][]byte
	writes   map[string][]byte
	previous map[string][]byte
	readOnly bool
}

func (t *memoryTxn) lookup(k string) ([]byte, bool) {
	if v, ok := t.writes[k]; ok {
		return v, true
	}
	v, ok := t.base[k]
	return v, ok
}

func (t *memoryTxn) stage(k string, value []byte) {
	if t.previous == nil {
		t.previous = make(map[string][]byte)
	}
	if _, seen := t.previous[k]; !seen {
		if prev, ok := t.base[k]; ok {
			t.previous[k] = prev
		}
	}
	t.writes[k] = cloneBytes(value)
}

func (t *memoryTxn) Create(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	k := string(key)
	if _, ok := t.lookup(k); ok {
		return fmt.Errorf("%w: %x", ErrAlreadyExists, key)
	}
	t.stage(k, value)
	return nil
}

func (t *memoryTxn) Get(key []byte) ([]byte, error) {
	v, ok := t.lookup(string(key))
	if !ok {
		return nil, fmt.Errorf("%w: %x", ErrNotFound, key)
	}
	return cloneBytes(v), nil
}

func (t *memoryTxn) Put(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	k := string(key)
	if _, ok := t.lookup(k); !ok {
		return fmt.Errorf("%w: %x", ErrNotFound, key)
	}
	t.stage(k, value)
	return nil
}
