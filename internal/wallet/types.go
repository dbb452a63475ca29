package wallet

import (
	"crypto/ecdsa"
	"errors"
)

// Scheme names a deterministic derivation scheme.
type Scheme string

const (
	// SchemeKeccak uses keccak256(identifier ++ salt) directly as the private key.
	SchemeKeccak Scheme = "keccak"
	// SchemeBIP32 stretches identifier and salt into a seed and derives m/44'/60'/0'/0/0.
	SchemeBIP32 Scheme = "bip32"

	// DefaultSalt is appended to every identifier before hashing.
	DefaultSalt = "mst-signature-salt"

	// DefaultPath is the BIP44 path used by SchemeBIP32
	DefaultPath = "m/44'/60'/0'/0/0"
)

var (
	ErrInvalidIdentifier = errors.New("identifier must not be empty")
	ErrUnsupportedScheme = errors.New("unsupported derivation scheme")
)

// Identity is a derived signing identity. It only ever lives in memory, call
// Zero once the key is no longer needed.
type Identity struct {
	Address    string
	PrivateKey *ecdsa.PrivateKey
}

// Deriver derives signing identities from stable user identifiers.
//
// WARNING: anybody who knows an identifier (and the salt) can recompute its key.
// Derived wallets are a demo/test custody mechanism and must never hold value.
type Deriver interface {
	// Derive returns the identity for identifier. Surrounding whitespace is
	// ignored, an empty identifier fails with ErrInvalidIdentifier.
	Derive(identifier string) (*Identity, error)

	// Scheme returns the scheme used by this deriver
	Scheme() Scheme
}
