package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v2"
)

// maxConflictBackoff caps the pause between replays of a conflicting Update.
const maxConflictBackoff = 50 * time.Millisecond

// BadgerStore persists records in badger. Updates from this process go
// through a single write gate, so hot keys such as the organization counter
// never starve under fan-out. Transactions stay optimistic underneath: a
// commit that still fails with ErrConflict is replayed against the fresh
// state until it lands or ctx ends, so a create-once race always ends with
// one winner and one ErrAlreadyExists.
type BadgerStore struct {
	db     *badger.DB
	writes writeGate
	logger *slog.Logger
}

// OpenBadger opens (or creates) a badger database in dir.
// An empty dir runs badger fully in memory.
func OpenBadger(dir string, logger *slog.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: opening %q: %w", dir, err)
	}
	logger.Info("badger store opened", "dir", dir, "in_memory", dir == "")
	return &BadgerStore{db: db, writes: newWriteGate(), logger: logger}, nil
}

func (s *BadgerStore) Update(ctx context.Context, fn func(Txn) error) error {
	if err := s.writes.enter(ctx); err != nil {
		return err
	}
	defer s.writes.leave()

	for attempt := 1; ; attempt++ {
		err := s.db.Update(func(txn *badger.Txn) error {
			return fn(&badgerTxn{txn: txn})
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.logger.Debug("badger transaction conflict, replaying", "attempt", attempt)
		select {
		case <-ctx.Done():
			return fmt.Errorf("badger: %w after %d conflicting attempts", ctx.Err(), attempt)
		case <-time.After(conflictBackoff(attempt)):
		}
	}
}

func conflictBackoff(attempt int) time.Duration {
	return min(time.Duration(attempt)*time.Millisecond, maxConflictBackoff)
}

func (s *BadgerStore) View(ctx context.Context, fn func(Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn, readOnly: true})
	})
}

func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("badger: closing: %w", err)
	}
	return nil
}

type badgerTxn struct {
	txn      *badger.Txn
	readOnly bool
}

func (t *badgerTxn) exists(key []byte) (bool, error) {
	_, err := t.txn.Get(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return false, err
}

func (t *badgerTxn) Create(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	// the read registers the key with the conflict detector
	found, err := t.exists(key)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: %x", ErrAlreadyExists, key)
	}
	return t.txn.Set(cloneBytes(key), cloneBytes(value))
}

func (t *badgerTxn) Get(key []byte) ([]byte, error) {
	item, err := t.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %x", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (t *badgerTxn) Put(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	found, err := t.exists(key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %x", ErrNotFound, key)
	}
	return t.txn.Set(cloneBytes(key), cloneBytes(value))
}
