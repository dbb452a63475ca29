// Package typeddata builds and signs the EIP-712 message that binds a document
// hash to a signing session.
package typeddata

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	// PrimaryType is the EIP-712 primary type of every signed message.
	PrimaryType = "DocumentSignature"

	domainType = "EIP712Domain"
)

var (
	documentHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

	// ErrMissingField is returned when PrimaryType declares a field the
	// message has no value for.
	ErrMissingField = errors.New("message has no value for declared field")
)

// Field is a single member of an EIP-712 struct type.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// DefaultFields is used whenever the signing backend does not publish its own
// definition of PrimaryType.
var DefaultFields = []Field{
	{Name: "sessionId", Type: "string"},
	{Name: "walletAddress", Type: "address"},
	{Name: "documentHash", Type: "bytes32"},
	{Name: "timestamp", Type: "uint256"},
}

// Domain is the EIP-712 domain separator as published by the signing backend,
// together with the type definitions the backend expects.
type Domain struct {
	Name              string             `json:"name"`
	Version           string             `json:"version"`
	ChainID           int64              `json:"chainId"`
	VerifyingContract string             `json:"verifyingContract,omitempty"`
	Types             map[string][]Field `json:"types,omitempty"`
}

// WithChainID returns a copy of d bound to chainID.
func (d Domain) WithChainID(chainID int64) Domain {
	d.ChainID = chainID
	return d
}

// Message is the struct signed by the wallet.
type Message struct {
	SessionID     string `json:"sessionId"`
	WalletAddress string `json:"walletAddress"`
	DocumentHash  string `json:"documentHash"`
	Timestamp     int64  `json:"timestamp"`
}

// NewMessage captures ts once, at seconds resolution. The same value has to be
// forwarded to the signing backend together with the signature.
func NewMessage(sessionID string, walletAddress string, documentHash string, ts time.Time) Message {
	return Message{
		SessionID:     sessionID,
		WalletAddress: walletAddress,
		DocumentHash:  documentHash,
		Timestamp:     ts.Unix(),
	}
}

func (m Message) values() map[string]interface{} {
	return map[string]interface{}{
		"sessionId":     m.SessionID,
		"walletAddress": m.WalletAddress,
		"documentHash":  m.DocumentHash,
		"timestamp":     strconv.FormatInt(m.Timestamp, 10),
	}
}

// toTypedDataMessage only carries the members declared by fields. Declared
// members the message has no value for are left out and reported by
// checkDeclaredFields.
func (m Message) toTypedDataMessage(fields []apitypes.Type) apitypes.TypedDataMessage {
	values := m.values()

	res := make(apitypes.TypedDataMessage, len(fields))
	for _, f := range fields {
		if v, ok := values[f.Name]; ok {
			res[f.Name] = v
		}
	}

	return res
}

func checkDeclaredFields(td apitypes.TypedData) error {
	for _, f := range td.Types[td.PrimaryType] {
		if _, ok := td.Message[f.Name]; !ok {
			return fmt.Errorf("%w: %s.%s (%s)", ErrMissingField, td.PrimaryType, f.Name, f.Type)
		}
	}

	return nil
}

// HashDocument returns the 0x-prefixed keccak256 of the exact document bytes.
func HashDocument(document []byte) string {
	return hexutil.Encode(crypto.Keccak256(document))
}

// IsDocumentHash reports whether s looks like a value returned by HashDocument.
func IsDocumentHash(s string) bool {
	return documentHashPattern.MatchString(s)
}

// Build assembles the typed data for msg under domain. A PrimaryType definition
// published by the backend wins over DefaultFields and the message only
// carries the fields it declares.
func Build(domain Domain, msg Message) apitypes.TypedData {
	types := apitypes.Types{}
	for name, fields := range domain.Types {
		if name == domainType {
			continue
		}
		types[name] = toTypes(fields)
	}

	if len(types[PrimaryType]) == 0 {
		types[PrimaryType] = toTypes(DefaultFields)
	}

	domainFields := make([]apitypes.Type, 0, 4)
	if domain.Name != "" {
		domainFields = append(domainFields, apitypes.Type{Name: "name", Type: "string"})
	}
	if domain.Version != "" {
		domainFields = append(domainFields, apitypes.Type{Name: "version", Type: "string"})
	}
	domainFields = append(domainFields, apitypes.Type{Name: "chainId", Type: "uint256"})
	if domain.VerifyingContract != "" {
		domainFields = append(domainFields, apitypes.Type{Name: "verifyingContract", Type: "address"})
	}
	types[domainType] = domainFields

	var verifyingContract string
	if domain.VerifyingContract != "" {
		verifyingContract = common.HexToAddress(domain.VerifyingContract).Hex()
	}

	return apitypes.TypedData{
		Types:       types,
		PrimaryType: PrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           math.NewHexOrDecimal256(domain.ChainID),
			VerifyingContract: verifyingContract,
		},
		Message: msg.toTypedDataMessage(types[PrimaryType]),
	}
}

func toTypes(fields []Field) []apitypes.Type {
	res := make([]apitypes.Type, 0, len(fields))
	for _, f := range fields {
		res = append(res, apitypes.Type{Name: f.Name, Type: f.Type})
	}

	return res
}
