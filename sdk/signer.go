package sdk

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
)

var ErrInvalidSignature = errors.New("invalid signature")

// Signer holds a private key able to authorize transactions for its Address.
type Signer interface {
	Address() Address
	Sign(digest []byte) ([]byte, error)
}

// -----------------------------------------------------------------------------
// ed25519
// -----------------------------------------------------------------------------

// Ed25519Signer signs with an ed25519 key. Its address is the base58 public key.
type Ed25519Signer struct {
	key ed25519.PrivateKey
}

// GenerateEd25519 creates a fresh random keypair.
func GenerateEd25519() (*Ed25519Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating ed25519 key: %w", err)
	}
	return &Ed25519Signer{key: priv}, nil
}

// Ed25519FromSecret loads a base58 secret: either the 64 byte keypair
// layout wallets export or a bare 32 byte seed.
func Ed25519FromSecret(secret string) (*Ed25519Signer, error) {
	raw, err := base58.Decode(strings.TrimSpace(secret))
	if err != nil {
		return nil, fmt.Errorf("decoding ed25519 secret: %w", err)
	}
	switch len(raw) {
	case ed25519.PrivateKeySize:
		priv := ed25519.PrivateKey(raw)
		derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
		if !bytes.Equal(derived, priv) {
			return nil, errors.New("ed25519 secret: public half does not match seed")
		}
		return &Ed25519Signer{key: priv}, nil
	case ed25519.SeedSize:
		return &Ed25519Signer{key: ed25519.NewKeyFromSeed(raw)}, nil
	default:
		return nil, fmt.Errorf("ed25519 secret is %d bytes, want %d or %d", len(raw), ed25519.SeedSize, ed25519.PrivateKeySize)
	}
}

func (s *Ed25519Signer) Address() Address {
	pub := s.key.Public().(ed25519.PublicKey)
	return Address(base58.Encode(pub))
}

func (s *Ed25519Signer) Sign(digest []byte) ([]byte, error) {
	return ed25519.Sign(s.key, digest), nil
}

// Secret returns the base58 keypair so it can be written to a key file.
func (s *Ed25519Signer) Secret() string {
	return base58.Encode(s.key)
}

// -----------------------------------------------------------------------------
// secp256k1 (evm)
// -----------------------------------------------------------------------------

// EVMSigner signs with a secp256k1 key. Its address is the 0x keccak address.
type EVMSigner struct {
	key *ecdsa.PrivateKey
}

// GenerateEVM creates a fresh random secp256k1 key.
func GenerateEVM() (*EVMSigner, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating secp256k1 key: %w", err)
	}
	return &EVMSigner{key: key}, nil
}

// EVMFromHex loads a hex encoded secp256k1 private key (0x prefix optional).
func EVMFromHex(secret string) (*EVMSigner, error) {
	secret = strings.TrimPrefix(strings.TrimSpace(secret), "0x")
	key, err := crypto.HexToECDSA(secret)
	if err != nil {
		return nil, fmt.Errorf("decoding secp256k1 secret: %w", err)
	}
	return &EVMSigner{key: key}, nil
}

func (s *EVMSigner) Address() Address {
	return Address(crypto.PubkeyToAddress(s.key.PublicKey).Hex()).Normalize()
}

func (s *EVMSigner) Sign(digest []byte) ([]byte, error) {
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, fmt.Errorf("signing digest: %w", err)
	}
	return sig, nil
}

// Secret returns the 0x hex private key.
func (s *EVMSigner) Secret() string {
	return "0x" + hex.EncodeToString(crypto.FromECDSA(s.key))
}

// -----------------------------------------------------------------------------
// Verification
// -----------------------------------------------------------------------------

// VerifySignature checks that sig over digest was produced by the key behind addr.
// The scheme follows the address type.
func VerifySignature(addr Address, digest, sig []byte) error {
	switch addr.Type() {
	case AddressTypeKey:
		pub, err := addr.Bytes()
		if err != nil {
			return err
		}
		if len(sig) != ed25519.SignatureSize {
			return fmt.Errorf("%w: ed25519 signature is %d bytes", ErrInvalidSignature, len(sig))
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return fmt.Errorf("%w: ed25519 verification failed for %s", ErrInvalidSignature, addr)
		}
		return nil
	case AddressTypeEVM:
		if len(sig) != crypto.SignatureLength {
			return fmt.Errorf("%w: secp256k1 signature is %d bytes", ErrInvalidSignature, len(sig))
		}
		rsv := make([]byte, len(sig))
		copy(rsv, sig)
		// wallets hand out v as 27/28
		if rsv[crypto.RecoveryIDOffset] >= 27 {
			rsv[crypto.RecoveryIDOffset] -= 27
		}
		pub, err := crypto.SigToPub(digest, rsv)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		recovered := Address(crypto.PubkeyToAddress(*pub).Hex()).Normalize()
		if recovered != addr.Normalize() {
			return fmt.Errorf("%w: recovered %s, want %s", ErrInvalidSignature, recovered, addr)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAddress, addr.String())
	}
}

// EncodeSignature renders sig the way the signer's ecosystem does:
// base58 for ed25519, 0x hex for evm.
func EncodeSignature(addr Address, sig []byte) string {
	if addr.Type() == AddressTypeEVM {
		return "0x" + hex.EncodeToString(sig)
	}
	return base58.Encode(sig)
}

// DecodeSignature reverses EncodeSignature.
func DecodeSignature(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") {
		raw, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return raw, nil
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return raw, nil
}
