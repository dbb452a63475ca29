package typeddata

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const signatureLength = 65

var ErrInvalidSignature = errors.New("invalid signature")

// Digest returns keccak256(0x19 0x01 ‖ domainSeparator ‖ hashStruct(message)).
func Digest(td apitypes.TypedData) ([]byte, error) {
	if err := checkDeclaredFields(td); err != nil {
		return nil, err
	}

	domainSeparator, err := td.HashStruct(domainType, td.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to hash domain: %w", err)
	}

	messageHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to hash message: %w", err)
	}

	rawData := make([]byte, 0, 2+len(domainSeparator)+len(messageHash))
	rawData = append(rawData, 0x19, 0x01)
	rawData = append(rawData, domainSeparator...)
	rawData = append(rawData, messageHash...)

	return crypto.Keccak256(rawData), nil
}

// Sign signs td with key and returns the 0x-prefixed 65 byte signature with
// V in {27, 28}.
func Sign(td apitypes.TypedData, key *ecdsa.PrivateKey) (string, error) {
	digest, err := Digest(td)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return "", fmt.Errorf("failed to sign typed data: %w", err)
	}

	// Adjust V for Ethereum (27 or 28)
	sig[64] += 27

	return hexutil.Encode(sig), nil
}

// DecodeSignature checks that signature is a 0x-prefixed 65 byte value with a
// recovery id of 0, 1, 27 or 28 and returns its bytes with V normalised to 0 or 1.
func DecodeSignature(signature string) ([]byte, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if len(sig) != signatureLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, signatureLength, len(sig))
	}

	switch sig[64] {
	case 27, 28:
		sig[64] -= 27
	case 0, 1:
	default:
		return nil, fmt.Errorf("%w: unexpected recovery id %d", ErrInvalidSignature, sig[64])
	}

	return sig, nil
}

// RecoverSigner returns the checksummed address that produced signature over td.
func RecoverSigner(td apitypes.TypedData, signature string) (string, error) {
	sig, err := DecodeSignature(signature)
	if err != nil {
		return "", err
	}

	digest, err := Digest(td)
	if err != nil {
		return "", err
	}

	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return crypto.PubkeyToAddress(*pub).Hex(), nil
}
