package contract

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/zeebo/blake3"

	"okinoko_ledger/sdk"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32
	pdaMarker     = "ProgramDerivedAddress"
)

var (
	errOnCurve      = errors.New("derived address is on the ed25519 curve")
	errNoViableBump = errors.New("no viable bump seed")
	errSeedTooLong  = errors.New("seed exceeds 32 bytes")
	errTooManySeeds = errors.New("more than 16 seeds")
)

// createProgramAddress hashes seeds and program id into a candidate address.
// Candidates that are valid ed25519 points are rejected since a private key
// could exist for them.
func createProgramAddress(seeds [][]byte, programID sdk.Pubkey) (sdk.Pubkey, error) {
	var out sdk.Pubkey
	if len(seeds) > maxSeeds {
		return out, errTooManySeeds
	}
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return out, errSeedTooLong
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))
	copy(out[:], h.Sum(nil))
	if isOnCurve(out) {
		return out, errOnCurve
	}
	return out, nil
}

// findProgramAddress walks bumps from 255 down and returns the first off-curve address.
func findProgramAddress(seeds [][]byte, programID sdk.Pubkey) (sdk.Pubkey, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := createProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, errOnCurve) {
			return sdk.Pubkey{}, 0, err
		}
	}
	return sdk.Pubkey{}, 0, errNoViableBump
}

func isOnCurve(p sdk.Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}

// packU64LE appends the encoded number to dst and returns the new slice.
func packU64LE(x uint64, dst []byte) []byte {
	return append(dst,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
		byte(x>>32),
		byte(x>>40),
		byte(x>>48),
		byte(x>>56),
	)
}

// OrganizationAddress derives the singleton organization address from the fixed "dao-state" seed.
func OrganizationAddress(programID sdk.Pubkey) (sdk.Pubkey, uint8, error) {
	return findProgramAddress([][]byte{[]byte(seedOrganization)}, programID)
}

// ProposalAddress derives a proposal's address from its id (little-endian u64).
func ProposalAddress(programID sdk.Pubkey, id uint64) (sdk.Pubkey, uint8, error) {
	return findProgramAddress([][]byte{[]byte(seedProposal), packU64LE(id, nil)}, programID)
}

// BallotAddress derives the address of voter's ballot on the proposal at proposal.
// Both inputs are seeds, so one voter maps to exactly one ballot per proposal.
func BallotAddress(programID sdk.Pubkey, proposal sdk.Pubkey, voter sdk.Address) (sdk.Pubkey, uint8, error) {
	voterBytes, err := voter.Normalize().Bytes()
	if err != nil {
		return sdk.Pubkey{}, 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return findProgramAddress([][]byte{[]byte(seedVote), proposal[:], voterBytes}, programID)
}

// recordKey is the store key for a record: kind prefix followed by the derived address.
func recordKey(prefix byte, addr sdk.Pubkey) []byte {
	buf := make([]byte, 0, 1+len(addr))
	buf = append(buf, prefix)
	return append(buf, addr[:]...)
}

// transactionKey is where a committed transaction id is recorded.
func transactionKey(txID string) []byte {
	sum := blake3.Sum256([]byte(txID))
	return recordKey(kTransaction, sum)
}
