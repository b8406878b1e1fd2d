// Package events carries ledger notifications out of committed transactions.
//
// Every event has a terse pipe-delimited Line (the format watchers grep for,
// e.g. "pc|id:3|by:<addr>") and the same data as structured Fields.
// Sinks only ever see events of transactions that committed.
package events

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
)

// Kind names the state change an event reports.
type Kind string

const (
	OrganizationInitialized Kind = "OrganizationInitialized"
	ProposalCreated         Kind = "ProposalCreated"
	VoteCast                Kind = "VoteCast"
	ProposalFinalized       Kind = "ProposalFinalized"
)

// Event is one notification emitted by a ledger operation.
type Event struct {
	Kind   Kind              `json:"kind"`
	TxID   string            `json:"tx_id"`
	Line   string            `json:"line"`
	Fields map[string]string `json:"fields"`
}

// Sink receives committed events.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// Discard drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(context.Context, Event) error { return nil }

// Recorder keeps events in memory. Used by tests and by the command to print what happened.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Emit(_ context.Context, event Event) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Lines returns only the pipe-delimited lines, in emission order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Line
	}
	return out
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// SlogSink writes each event as one structured log record.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Emit(ctx context.Context, event Event) error {
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]any, 0, 4+2*len(keys))
	attrs = append(attrs, "kind", string(event.Kind), "tx_id", event.TxID)
	for _, k := range keys {
		attrs = append(attrs, k, event.Fields[k])
	}
	s.logger.InfoContext(ctx, event.Line, attrs...)
	return nil
}

// Multi fans an event out to several sinks and joins their errors.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
