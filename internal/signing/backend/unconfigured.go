package backend

import (
	"context"

	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/signing/typeddata"
)

// Unconfigured stands in for the backend while SIGNING_BACKEND_URL or
// SIGNING_BACKEND_API_KEY is missing. Every call fails with
// signing.ErrBackendNotConfigured.
type Unconfigured struct{}

var _ signing.Backend = Unconfigured{}

func (Unconfigured) CreateSession(context.Context, *signing.BackendSessionRequest) (*signing.BackendSession, error) {
	return nil, signing.ErrBackendNotConfigured
}

func (Unconfigured) SignDocument(context.Context, *signing.BackendSignRequest) (*signing.BackendSignResult, error) {
	return nil, signing.ErrBackendNotConfigured
}

func (Unconfigured) GetEIP712Domain(context.Context) (*typeddata.Domain, error) {
	return nil, signing.ErrBackendNotConfigured
}

func (Unconfigured) GetVerificationLink(context.Context, string) (string, error) {
	return "", signing.ErrBackendNotConfigured
}

func (Unconfigured) GetSignedDocument(context.Context, string) ([]byte, error) {
	return nil, signing.ErrBackendNotConfigured
}

func (Unconfigured) VerifySignature(context.Context, string) (bool, error) {
	return false, signing.ErrBackendNotConfigured
}
