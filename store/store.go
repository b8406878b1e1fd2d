// Package store is the durable record substrate under the ledger.
//
// Records live under opaque byte keys. Create is create-once: a key that
// already holds a record can never be created again, which is what the
// ledger leans on for singleton and one-vote guarantees. Every mutation
// happens inside Update, which commits all of its writes or none of them.
package store

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyExists is returned by Create when the key is already populated.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrNotFound is returned by Get and Put when the key holds nothing.
	ErrNotFound = errors.New("record not found")
	// ErrReadOnly is returned by writes attempted inside View.
	ErrReadOnly = errors.New("read-only transaction")
)

// Txn is the view of the store inside one transaction.
type Txn interface {
	// Create stores value under key, failing with ErrAlreadyExists if the key is taken.
	Create(key, value []byte) error
	// Get returns a copy of the value under key or ErrNotFound.
	Get(key []byte) ([]byte, error)
	// Put overwrites an existing record. It never creates one.
	Put(key, value []byte) error
}

// Store runs transactions.
type Store interface {
	// Update runs fn in a read-write transaction. If fn returns an error
	// nothing it wrote becomes visible.
	Update(ctx context.Context, fn func(Txn) error) error
	// View runs fn against a consistent read-only snapshot.
	View(ctx context.Context, fn func(Txn) error) error
	Close() error
}

// writeGate admits one in-process writer at a time.
type writeGate chan struct{}

func newWriteGate() writeGate { return make(writeGate, 1) }

// enter waits for the gate or for ctx to end.
func (g writeGate) enter(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case g <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g writeGate) leave() { <-g }

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
