package sdk

import (
	"strconv"
	"time"
)

// Sender describes who submitted a transaction and which identities
// proved control over their keys for it.
type Sender struct {
	Address       Address   `json:"id"`
	RequiredAuths []Address `json:"required_auths"`
}

// Env is the per-transaction environment handed to every ledger operation.
// It replaces the host env blob the contract used to read key by key.
type Env struct {
	TxID string
	// Timestamp pins the block time (unix seconds or RFC3339). Only trusted
	// in-process callers set it; envelopes from the wire never do. Empty
	// means the ledger clock decides.
	Timestamp string
	Sender    Sender
}

// NewEnv builds an env for a transaction signed by the sender alone.
func NewEnv(txID string, sender Address) *Env {
	return &Env{
		TxID: txID,
		Sender: Sender{
			Address:       sender,
			RequiredAuths: []Address{sender},
		},
	}
}

// IsSignedBy reports whether addr is among the verified signers of this transaction.
func (e *Env) IsSignedBy(addr Address) bool {
	if e == nil || addr == "" {
		return false
	}
	want := addr.Normalize()
	for _, auth := range e.Sender.RequiredAuths {
		if auth.Normalize() == want {
			return true
		}
	}
	return false
}

// Now returns the pinned block timestamp if it parses, else the clock's time.
func (e *Env) Now(clock Clock) int64 {
	if e != nil && e.Timestamp != "" {
		if v, ok := ParseTimestamp(e.Timestamp); ok {
			return v
		}
	}
	return clock.Now().Unix()
}

// ParseTimestamp accepts unix seconds or iso-ish strings since submitters flip formats sometimes.
func ParseTimestamp(val string) (int64, bool) {
	if v, err := strconv.ParseInt(val, 10, 64); err == nil {
		return v, true
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t.Unix(), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", val, time.UTC); err == nil {
		return t.Unix(), true
	}
	return 0, false
}
