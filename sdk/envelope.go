package sdk

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// envelopeDomain separates ledger signatures from anything else the same key signs.
const envelopeDomain = "okinoko-ledger/tx/v1"

var ErrMalformedEnvelope = errors.New("malformed envelope")

// Envelope is a signed transaction as it crosses the submission boundary.
// Payload carries the action arguments as raw json text so the signature
// covers exactly the bytes the ledger decodes. Timestamp is the signer's
// claimed signing time: it is signed but never becomes the block time.
//
//tinyjson:json
type Envelope struct {
	TxID      string  `json:"tx_id"`
	Action    string  `json:"action"`
	Payload   string  `json:"payload"`
	Timestamp string  `json:"timestamp,omitempty"`
	Signer    Address `json:"signer"`
	Signature string  `json:"signature"`
}

// Digest is blake3 over the domain tag and the length-prefixed signed fields.
func (e *Envelope) Digest() []byte {
	buf := make([]byte, 0, len(envelopeDomain)+len(e.TxID)+len(e.Action)+len(e.Payload)+len(e.Timestamp)+len(e.Signer)+40)
	buf = append(buf, envelopeDomain...)
	for _, field := range []string{e.TxID, e.Action, e.Payload, e.Timestamp, e.Signer.String()} {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(field)))
		buf = append(buf, field...)
	}
	sum := blake3.Sum256(buf)
	return sum[:]
}

// SignEnvelope wraps payload for action under a fresh tx id and signs it.
func SignEnvelope(signer Signer, action string, payload []byte, timestamp string) (*Envelope, error) {
	env := &Envelope{
		TxID:      uuid.NewString(),
		Action:    action,
		Payload:   string(payload),
		Timestamp: timestamp,
		Signer:    signer.Address(),
	}
	sig, err := signer.Sign(env.Digest())
	if err != nil {
		return nil, err
	}
	env.Signature = EncodeSignature(env.Signer, sig)
	return env, nil
}

// Verify authenticates the envelope and returns the Env the ledger runs with.
// The verified signer becomes both the sender and the only required auth.
// The returned Env never pins a timestamp, so the ledger clock decides.
func (e *Envelope) Verify() (*Env, error) {
	if e.TxID == "" {
		return nil, fmt.Errorf("%w: tx_id missing", ErrMalformedEnvelope)
	}
	if _, err := uuid.Parse(e.TxID); err != nil {
		return nil, fmt.Errorf("%w: tx_id: %v", ErrMalformedEnvelope, err)
	}
	if e.Action == "" {
		return nil, fmt.Errorf("%w: action missing", ErrMalformedEnvelope)
	}
	signer, err := ParseAddress(e.Signer.String())
	if err != nil {
		return nil, err
	}
	sig, err := DecodeSignature(e.Signature)
	if err != nil {
		return nil, err
	}
	if err := VerifySignature(signer, e.Digest(), sig); err != nil {
		return nil, err
	}
	return NewEnv(e.TxID, signer), nil
}
