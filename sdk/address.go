package sdk

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// PubkeyLength is the size of ed25519 identities and derived record addresses.
const PubkeyLength = 32

// EVMAddressLength is the size of secp256k1 identities (keccak tail of the pubkey).
const EVMAddressLength = 20

type AddressType string

const (
	AddressTypeKey     AddressType = "key"
	AddressTypeEVM     AddressType = "evm"
	AddressTypeUnknown AddressType = "unknown"
)

var ErrInvalidAddress = errors.New("invalid address")

// Address is the text form of a caller identity. Two forms are accepted:
// a base58 ed25519 public key (solana style) or a 0x-prefixed evm address.
type Address string

// String returns the literal representation of the address.
// Example payload: sdk.Address("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin").String()
func (a Address) String() string {
	return string(a)
}

// Type inspects the encoding to categorize the address (key or evm).
// Example payload: sdk.Address("0x52908400098527886E0F7030069857D2E4169EE7").Type()
func (a Address) Type() AddressType {
	s := a.String()
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		raw, err := hex.DecodeString(s[2:])
		if err == nil && len(raw) == EVMAddressLength {
			return AddressTypeEVM
		}
		return AddressTypeUnknown
	}
	raw, err := base58.Decode(s)
	if err == nil && len(raw) == PubkeyLength {
		return AddressTypeKey
	}
	return AddressTypeUnknown
}

// IsValid returns false if the address type detection failed.
func (a Address) IsValid() bool {
	return a.Type() != AddressTypeUnknown
}

// Bytes returns the raw identity bytes, used as a seed when deriving ballot addresses.
func (a Address) Bytes() ([]byte, error) {
	switch a.Type() {
	case AddressTypeKey:
		return base58.Decode(a.String())
	case AddressTypeEVM:
		return hex.DecodeString(a.String()[2:])
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, a.String())
	}
}

// Normalize lower-cases evm addresses so two spellings of the same key compare equal.
// Base58 keys are case sensitive and returned untouched.
func (a Address) Normalize() Address {
	if a.Type() == AddressTypeEVM {
		return Address("0x" + strings.ToLower(a.String()[2:]))
	}
	return a
}

// ParseAddress validates and normalizes a caller supplied identity.
func ParseAddress(s string) (Address, error) {
	a := Address(strings.TrimSpace(s))
	if !a.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return a.Normalize(), nil
}

// Pubkey is a 32 byte address: an ed25519 key or a program derived record address.
type Pubkey [PubkeyLength]byte

// String renders the key in base58.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// Address converts the key into a caller identity.
func (p Pubkey) Address() Address {
	return Address(p.String())
}

// IsZero reports whether no byte is set.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// MarshalText keeps keys readable in json and cbor text fields.
func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePubkey decodes a base58 string into a Pubkey.
// Example payload: sdk.ParsePubkey("5RzYB945gtiaM3k2WjiuhptSNQ8M3VmXQbBmJsSTCwC5")
func ParsePubkey(s string) (Pubkey, error) {
	var p Pubkey
	raw, err := base58.Decode(strings.TrimSpace(s))
	if err != nil {
		return p, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, s, err)
	}
	if len(raw) != PubkeyLength {
		return p, fmt.Errorf("%w: %q decodes to %d bytes, want %d", ErrInvalidAddress, s, len(raw), PubkeyLength)
	}
	copy(p[:], raw)
	return p, nil
}
