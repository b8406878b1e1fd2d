package sdk

import (
	"strings"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 8032 test 1.
const (
	rfcSeed    = "BbMQkQYZspmkytduTWvXEtc4mMURjsekJDvty2WtKeSb"
	rfcKeypair = "49W385L4rePHy6PAaQUovbD2aacgN4HsKXSMeUzRg4fmwXszN91JuMFrQRj3vMDpZuRF3ZknQBuRBoWQJEfXstMw"
	rfcPublic  = "FVen3X669xLzsi6N2V91DoiyzHzg1uAgqiT8jZ9nS96Z"
)

func TestEd25519FromSecretAcceptsSeedAndKeypair(t *testing.T) {
	fromSeed, err := Ed25519FromSecret(rfcSeed)
	require.NoError(t, err)
	assert.Equal(t, Address(rfcPublic), fromSeed.Address())

	fromPair, err := Ed25519FromSecret(" " + rfcKeypair + "\n")
	require.NoError(t, err)
	assert.Equal(t, Address(rfcPublic), fromPair.Address())
	assert.Equal(t, rfcKeypair, fromPair.Secret())

	_, err = Ed25519FromSecret(rfcPublic[:20])
	assert.Error(t, err)
}

func TestEd25519FromSecretRejectsMismatchedKeypair(t *testing.T) {
	other, err := GenerateEd25519()
	require.NoError(t, err)
	seed, err := Ed25519FromSecret(rfcSeed)
	require.NoError(t, err)

	// other's seed followed by the rfc public half
	mixed := make([]byte, 0, 64)
	mixed = append(mixed, other.key[:32]...)
	mixed = append(mixed, seed.key[32:]...)
	_, err = Ed25519FromSecret(base58.Encode(mixed))
	assert.Error(t, err)
}

func TestEVMFromHexKnownAddress(t *testing.T) {
	signer, err := EVMFromHex("0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	require.NoError(t, err)
	assert.Equal(t, Address("0x2c7536e3605d9c16a7a3d7b1898e529396a65c23"), signer.Address())

	again, err := EVMFromHex(signer.Secret())
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), again.Address())
}

func TestSignaturesVerifyPerScheme(t *testing.T) {
	ed, err := GenerateEd25519()
	require.NoError(t, err)
	evm, err := GenerateEVM()
	require.NoError(t, err)
	digest := []byte("0123456789abcdef0123456789abcdef")

	for _, signer := range []Signer{ed, evm} {
		sig, err := signer.Sign(digest)
		require.NoError(t, err)
		require.NoError(t, VerifySignature(signer.Address(), digest, sig))

		decoded, err := DecodeSignature(EncodeSignature(signer.Address(), sig))
		require.NoError(t, err)
		assert.Equal(t, sig, decoded)

		tampered := append([]byte{}, digest...)
		tampered[0] ^= 1
		assert.ErrorIs(t, VerifySignature(signer.Address(), tampered, sig), ErrInvalidSignature)
	}

	// a signature by one key never verifies for another
	sig, err := ed.Sign(digest)
	require.NoError(t, err)
	other, err := GenerateEd25519()
	require.NoError(t, err)
	assert.ErrorIs(t, VerifySignature(other.Address(), digest, sig), ErrInvalidSignature)
}

func TestEVMSignatureAcceptsWalletRecoveryID(t *testing.T) {
	evm, err := GenerateEVM()
	require.NoError(t, err)
	digest := []byte("0123456789abcdef0123456789abcdef")
	sig, err := evm.Sign(digest)
	require.NoError(t, err)
	sig[64] += 27
	assert.NoError(t, VerifySignature(evm.Address(), digest, sig))

	upper := Address("0x" + strings.ToUpper(evm.Address().String()[2:]))
	assert.NoError(t, VerifySignature(upper, digest, sig))
}

func TestEnvelopeVerify(t *testing.T) {
	ed, err := GenerateEd25519()
	require.NoError(t, err)

	envelope, err := SignEnvelope(ed, "cast_vote", []byte(`{"proposal_id":0,"choice":"yes"}`), "1756857600")
	require.NoError(t, err)

	env, err := envelope.Verify()
	require.NoError(t, err)
	assert.Equal(t, envelope.TxID, env.TxID)
	assert.Equal(t, ed.Address(), env.Sender.Address)
	assert.True(t, env.IsSignedBy(ed.Address()))

	data, err := envelope.MarshalJSON()
	require.NoError(t, err)
	var decoded Envelope
	require.NoError(t, decoded.UnmarshalJSON(data))
	_, err = decoded.Verify()
	assert.NoError(t, err)
}

func TestVerifiedEnvelopeDoesNotPinTime(t *testing.T) {
	ed, err := GenerateEd25519()
	require.NoError(t, err)
	clock := NewFakeClock(time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC))

	for _, claimed := range []string{"0", "1756857600", "2025-09-03T00:00:00Z"} {
		envelope, err := SignEnvelope(ed, "cast_vote", []byte(`{"proposal_id":0,"choice":"yes"}`), claimed)
		require.NoError(t, err)
		env, err := envelope.Verify()
		require.NoError(t, err)
		assert.Empty(t, env.Timestamp)
		assert.Equal(t, clock.Now().Unix(), env.Now(clock), "claimed %q", claimed)
	}
}

func TestEnvelopeRejectsTampering(t *testing.T) {
	evm, err := GenerateEVM()
	require.NoError(t, err)
	other, err := GenerateEd25519()
	require.NoError(t, err)

	fresh := func() *Envelope {
		envelope, err := SignEnvelope(evm, "finalize_proposal", []byte(`{"proposal_id":1}`), "")
		require.NoError(t, err)
		return envelope
	}

	cases := map[string]func(*Envelope){
		"payload":   func(e *Envelope) { e.Payload = `{"proposal_id":2}` },
		"action":    func(e *Envelope) { e.Action = "cast_vote" },
		"timestamp": func(e *Envelope) { e.Timestamp = "1" },
		"signer":    func(e *Envelope) { e.Signer = other.Address() },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			envelope := fresh()
			mutate(envelope)
			_, err := envelope.Verify()
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}

	envelope := fresh()
	envelope.TxID = "not-a-uuid"
	_, err = envelope.Verify()
	assert.ErrorIs(t, err, ErrMalformedEnvelope)

	envelope = fresh()
	envelope.Action = ""
	_, err = envelope.Verify()
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestEnvNowPrefersPinnedTimestamp(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC))
	env := NewEnv("tx", Address(rfcPublic))
	assert.Equal(t, clock.Now().Unix(), env.Now(clock))

	env.Timestamp = "2025-09-03T00:01:00Z"
	assert.Equal(t, clock.Now().Unix()+60, env.Now(clock))

	env.Timestamp = "2025-09-03T00:02:00"
	assert.Equal(t, clock.Now().Unix()+120, env.Now(clock))

	env.Timestamp = "yesterday"
	assert.Equal(t, clock.Now().Unix(), env.Now(clock))

	clock.Advance(time.Hour)
	assert.Equal(t, time.Date(2025, 9, 3, 1, 0, 0, 0, time.UTC), clock.Now())
}

func TestIsSignedBy(t *testing.T) {
	evm, err := GenerateEVM()
	require.NoError(t, err)
	env := NewEnv("tx", evm.Address())
	upper := Address("0x" + strings.ToUpper(evm.Address().String()[2:]))
	assert.True(t, env.IsSignedBy(upper))
	assert.False(t, env.IsSignedBy(Address(rfcPublic)))
	assert.False(t, env.IsSignedBy(""))

	var missing *Env
	assert.False(t, missing.IsSignedBy(evm.Address()))
}
