package signing

import (
	"context"

	"github/chapool/go-docsign/internal/signing/store"
	"github/chapool/go-docsign/internal/signing/typeddata"
)

// Session is an alias to store.Session for API access
type Session = store.Session

// Status is an alias to store.Status for API access
type Status = store.Status

// Document is an uploaded file together with its declared metadata.
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

// CreateRequest starts a new signing session.
type CreateRequest struct {
	Document      *Document
	SignerAddress string
	UserID        string
	// Message is shown to the signer, defaults to the configured message when empty
	Message string
}

// SignResult is returned after the backend accepted a signature.
type SignResult struct {
	SessionID        string
	Signature        string
	DocumentHash     string
	VerificationLink string
	DocumentURL      string
	Status           Status
}

// BackendSessionRequest registers a document with the signing backend.
type BackendSessionRequest struct {
	Document      []byte
	FileName      string
	SignerAddress string
	UserID        string
	Message       string
	Timestamp     string
}

// BackendSession is the backend's view of a freshly created session.
type BackendSession struct {
	SessionID    string
	DocumentHash string
	Timestamp    string
}

// BackendSignRequest submits a signature. Message is the exact typed-data
// message that was signed, including its timestamp, when known.
type BackendSignRequest struct {
	SessionID     string
	Signature     string
	WalletAddress string
	Message       *typeddata.Message
}

// BackendSignResult is the backend's answer to a signature submission.
type BackendSignResult struct {
	VerificationLink string
	DocumentURL      string
}

// Backend is the external signing and verification service. Implementations
// are stateless and report failures as *Error of KindBackend or KindBackendUnavailable.
type Backend interface {
	CreateSession(ctx context.Context, req *BackendSessionRequest) (*BackendSession, error)
	SignDocument(ctx context.Context, req *BackendSignRequest) (*BackendSignResult, error)
	GetEIP712Domain(ctx context.Context) (*typeddata.Domain, error)
	GetVerificationLink(ctx context.Context, sessionID string) (string, error)
	GetSignedDocument(ctx context.Context, sessionID string) ([]byte, error)
	VerifySignature(ctx context.Context, sessionID string) (bool, error)
}

// ChainResolver returns the chain id of the active network.
type ChainResolver interface {
	ChainID(ctx context.Context) (int64, error)
}

// Observer is notified whenever a session enters a status.
type Observer interface {
	ObserveStatus(status Status)
}

type noopObserver struct{}

func (noopObserver) ObserveStatus(Status) {}
