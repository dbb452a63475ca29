package signing_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/signing/typeddata"
)

// MockBackend is a mock implementation of signing.Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) CreateSession(ctx context.Context, req *signing.BackendSessionRequest) (*signing.BackendSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signing.BackendSession), args.Error(1)
}

func (m *MockBackend) SignDocument(ctx context.Context, req *signing.BackendSignRequest) (*signing.BackendSignResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signing.BackendSignResult), args.Error(1)
}

func (m *MockBackend) GetEIP712Domain(ctx context.Context) (*typeddata.Domain, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*typeddata.Domain), args.Error(1)
}

func (m *MockBackend) GetVerificationLink(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) GetSignedDocument(ctx context.Context, sessionID string) ([]byte, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBackend) VerifySignature(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

// MockChainResolver is a mock implementation of signing.ChainResolver
type MockChainResolver struct {
	mock.Mock
}

func (m *MockChainResolver) ChainID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type recordingObserver struct {
	mu       sync.Mutex
	statuses []signing.Status
}

func (o *recordingObserver) ObserveStatus(status signing.Status) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.statuses = append(o.statuses, status)
}

func (o *recordingObserver) Statuses() []signing.Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]signing.Status(nil), o.statuses...)
}
