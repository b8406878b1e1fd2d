// Package contract is the governance ledger: one organization, its
// proposals, and one ballot per voter per proposal.
//
// Every operation runs as a single store transaction. Records live at
// program derived addresses, so the store's create-once guarantee is what
// makes the organization a singleton and a second vote impossible.
package contract

import (
	"context"
	"fmt"
	"log/slog"

	"okinoko_ledger/events"
	"okinoko_ledger/sdk"
	"okinoko_ledger/store"
)

// Options tune validation and voting windows.
type Options struct {
	// StrictTextLimits enforces the title and description bounds. The name
	// bound is enforced regardless.
	StrictTextLimits bool
	// DefaultVotingSeconds applies to proposals created without a duration.
	// Nil leaves such proposals open until finalized.
	DefaultVotingSeconds *int64
}

// DefaultOptions returns strict limits and no default voting window.
func DefaultOptions() Options {
	return Options{StrictTextLimits: true}
}

// Ledger applies governance operations to a store.
type Ledger struct {
	store     store.Store
	programID sdk.Pubkey
	orgAddr   sdk.Pubkey
	orgBump   uint8
	opts      Options
	clock     sdk.Clock
	sink      events.Sink
	logger    *slog.Logger
}

// Option configures a Ledger built by New.
type Option func(*Ledger)

// WithOptions replaces the validation and voting defaults.
func WithOptions(opts Options) Option {
	return func(l *Ledger) { l.opts = opts }
}

// WithClock sets the clock used for block time.
func WithClock(clock sdk.Clock) Option {
	return func(l *Ledger) { l.clock = clock }
}

// WithSink sets where committed events go.
func WithSink(sink events.Sink) Option {
	return func(l *Ledger) { l.sink = sink }
}

// WithLogger sets the logger; the default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithProgramID changes the program id addresses are derived under.
func WithProgramID(id sdk.Pubkey) Option {
	return func(l *Ledger) { l.programID = id }
}

// New builds a ledger over st.
func New(st store.Store, opts ...Option) (*Ledger, error) {
	if st == nil {
		return nil, fmt.Errorf("ledger: store is required")
	}
	defaultID, err := sdk.ParsePubkey(DefaultProgramID)
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		store:     st,
		programID: defaultID,
		opts:      DefaultOptions(),
		clock:     sdk.RealClock(),
		sink:      events.Discard,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	if l.sink == nil {
		l.sink = events.Discard
	}
	if l.clock == nil {
		l.clock = sdk.RealClock()
	}
	l.orgAddr, l.orgBump, err = OrganizationAddress(l.programID)
	if err != nil {
		return nil, fmt.Errorf("ledger: deriving organization address: %w", err)
	}
	return l, nil
}

// ProgramID returns the id record addresses are derived under.
func (l *Ledger) ProgramID() sdk.Pubkey { return l.programID }

// execute runs fn inside one store transaction. Events collected by fn are
// published only once the transaction has committed.
func (l *Ledger) execute(ctx context.Context, env *sdk.Env, action string, fn func(tx *txn) error) error {
	if err := requireSigner(env); err != nil {
		l.logger.Debug("transaction rejected", "action", action, "error", err)
		return err
	}
	var committed *txn
	err := l.store.Update(ctx, func(st store.Txn) error {
		// fresh per attempt: stores may replay fn after a write conflict
		tx := &txn{Txn: st, env: env, now: env.Now(l.clock)}
		if err := tx.markApplied(action); err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			return err
		}
		committed = tx
		return nil
	})
	if err != nil {
		l.logger.Debug("transaction rejected",
			"tx_id", env.TxID, "action", action, "sender", env.Sender.Address, "error", err)
		return err
	}
	l.logger.Info("transaction committed",
		"tx_id", env.TxID, "action", action, "sender", env.Sender.Address)
	for _, event := range committed.events {
		if err := l.sink.Emit(ctx, event); err != nil {
			l.logger.Warn("event delivery failed", "tx_id", env.TxID, "kind", event.Kind, "error", err)
		}
	}
	return nil
}

// view runs fn against a read-only snapshot.
func (l *Ledger) view(ctx context.Context, fn func(tx store.Txn) error) error {
	return l.store.View(ctx, fn)
}
