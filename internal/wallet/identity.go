package wallet

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

func newIdentity(privateKey []byte) (*Identity, error) {
	// Convert to ECDSA private key
	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}

	publicKeyECDSA, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("failed to cast public key to ECDSA")
	}

	return &Identity{
		Address:    crypto.PubkeyToAddress(*publicKeyECDSA).Hex(),
		PrivateKey: key,
	}, nil
}

// PrivateKeyHex returns the 0x-prefixed private key. Only meant for the CLI.
func (i *Identity) PrivateKeyHex() string {
	if i == nil || i.PrivateKey == nil {
		return ""
	}

	return hexutil.Encode(crypto.FromECDSA(i.PrivateKey))
}

// Zero wipes the private scalar of the identity.
func (i *Identity) Zero() {
	if i == nil || i.PrivateKey == nil || i.PrivateKey.D == nil {
		return
	}

	words := i.PrivateKey.D.Bits()
	for idx := range words {
		words[idx] = 0
	}
	i.PrivateKey.D.SetInt64(0)
	i.PrivateKey = nil
}
