package wallet

import (
	"crypto/sha512"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/go-docsign/internal/config"
	"golang.org/x/crypto/pbkdf2"
)

type deriver struct {
	scheme Scheme
	salt   string
	path   string
}

// NewDeriver creates a Deriver for the configured scheme and salt
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewDeriver(cfg config.Wallet) (Deriver, error) {
	salt := cfg.DerivationSalt
	if salt == "" {
		salt = DefaultSalt
	}

	scheme := Scheme(cfg.DerivationScheme)
	if scheme == "" {
		scheme = SchemeKeccak
	}

	switch scheme {
	case SchemeKeccak, SchemeBIP32:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}

	return &deriver{
		scheme: scheme,
		salt:   salt,
		path:   DefaultPath,
	}, nil
}

func (d *deriver) Scheme() Scheme {
	return d.scheme
}

func (d *deriver) Derive(identifier string) (*Identity, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrInvalidIdentifier
	}

	var (
		privateKey []byte
		err        error
	)

	switch d.scheme {
	case SchemeBIP32:
		privateKey, err = d.deriveBIP32(identifier)
	case SchemeKeccak:
		privateKey = crypto.Keccak256([]byte(identifier + d.salt))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, d.scheme)
	}
	if err != nil {
		return nil, err
	}

	// Clear private key after use
	defer func() {
		for i := range privateKey {
			privateKey[i] = 0
		}
	}()

	return newIdentity(privateKey)
}

func (d *deriver) deriveBIP32(identifier string) ([]byte, error) {
	const (
		pbkdf2Iterations = 2048 // BIP39 standard iterations
		pbkdf2KeyLength  = 64   // BIP39 standard key length (512 bits)
	)

	seed := pbkdf2.Key(
		[]byte(identifier),
		[]byte(d.salt),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	)

	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	privateKey, err := derivePrivateKey(seed, d.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive private key")
	}

	return privateKey, nil
}
