package signing_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/signing/store"
	"github/chapool/go-docsign/internal/signing/typeddata"
	"github/chapool/go-docsign/internal/wallet"
)

const (
	testSignerAddress = "0x51D08bcb16711098616F4fA8b41bD7EEf718b2bF"
	testIdentifier    = "user-1234"
	testUserID        = "user-1234"
	testSessionID     = "session-1"
	// keccak256 of testDocument
	testDocumentHash = "0x264b191f1a638747dcbbdaf45425c59103e2eb5f7bd6835be768d2ad852b0ae4"
	testSignature    = "0xcccd6b5e6b09753fa74be0fe6855dd5a29027c3d78769f57b65ea38fc68c43563f7a4f6635625c10e6290c06e0629f724389e73e117b88b1c5e273157dd3d88b1c"
)

var testDocument = []byte("%PDF-1.4 test document")

type testEnv struct {
	service  signing.Service
	backend  *MockBackend
	store    *store.Memory
	clock    *time2.MockClock
	observer *recordingObserver
	config   config.Server
}

func newTestEnv(t *testing.T, opts ...signing.Option) *testEnv {
	t.Helper()

	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Signing.PendingTTL = time.Hour
	cfg.Wallet.DemoDerivationEnabled = true
	cfg.Wallet.DerivationScheme = config.DerivationSchemeKeccak
	cfg.Wallet.DerivationSalt = wallet.DefaultSalt

	deriver, err := wallet.NewDeriver(cfg.Wallet)
	require.NoError(t, err)

	env := &testEnv{
		backend:  new(MockBackend),
		store:    store.NewMemory(),
		clock:    time2.NewMockClock(time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)),
		observer: &recordingObserver{},
		config:   cfg,
	}

	opts = append([]signing.Option{signing.WithDeriver(deriver), signing.WithObserver(env.observer)}, opts...)
	env.service = signing.NewService(cfg, env.store, env.backend, env.clock, opts...)

	return env
}

func (e *testEnv) createSession(t *testing.T, sessionID string) *signing.Session {
	t.Helper()

	e.backend.On("CreateSession", mock.Anything, mock.MatchedBy(func(req *signing.BackendSessionRequest) bool {
		return req.UserID == testUserID
	})).Return(&signing.BackendSession{SessionID: sessionID, DocumentHash: testDocumentHash, Timestamp: "2025-10-15T09:00:00.000Z"}, nil).Once()

	session, err := e.service.CreateSigningSession(context.Background(), &signing.CreateRequest{
		Document:      &signing.Document{FileName: "contract.pdf", ContentType: signing.MIMETypePDF, Content: testDocument},
		SignerAddress: testSignerAddress,
		UserID:        testUserID,
	})
	require.NoError(t, err)

	return session
}

func testDomain() *typeddata.Domain {
	return &typeddata.Domain{
		Name:              "MST Document Signing",
		Version:           "1",
		ChainID:           137,
		VerifyingContract: "0x1111111111111111111111111111111111111111",
	}
}

func TestCreateSigningSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.backend.On("CreateSession", mock.Anything, mock.MatchedBy(func(req *signing.BackendSessionRequest) bool {
		return req.SignerAddress == testSignerAddress &&
			req.Message == "Document signing request" &&
			req.Timestamp == "2025-10-15T09:00:00.000Z" &&
			req.FileName == "contract.pdf"
	})).Return(&signing.BackendSession{SessionID: testSessionID, DocumentHash: "0xdead", Timestamp: "2025-10-15T09:00:01.000Z"}, nil).Once()

	session, err := env.service.CreateSigningSession(ctx, &signing.CreateRequest{
		Document:      &signing.Document{FileName: "contract.pdf", ContentType: "application/pdf", Content: testDocument},
		SignerAddress: "0x51d08bcb16711098616f4fa8b41bd7eef718b2bf",
		UserID:        " " + testUserID + " ",
	})
	require.NoError(t, err)
	env.backend.AssertExpectations(t)

	assert.Equal(t, testSessionID, session.SessionID)
	assert.Equal(t, testDocumentHash, session.DocumentHash, "local hash wins over the backend's")
	assert.Equal(t, testSignerAddress, session.SignerAddress)
	assert.Equal(t, testUserID, session.UserID)
	assert.Equal(t, "2025-10-15T09:00:01.000Z", session.Timestamp)
	assert.Equal(t, store.StatusPending, session.Status)
	assert.Empty(t, session.Signature)

	stored, err := env.service.GetSigningSession(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, session.DocumentHash, stored.DocumentHash)
	assert.Equal(t, []signing.Status{store.StatusPending}, env.observer.Statuses())
}

func TestCreateSigningSessionInvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  *signing.Document
	}{
		{name: "missing", doc: nil},
		{name: "empty", doc: &signing.Document{ContentType: signing.MIMETypePDF}},
		{name: "wrong content type", doc: &signing.Document{ContentType: "image/png", Content: testDocument}},
		{name: "not a pdf", doc: &signing.Document{ContentType: signing.MIMETypePDF, Content: []byte("hello world")}},
		{name: "too large", doc: &signing.Document{ContentType: signing.MIMETypePDF, Content: append(append([]byte{}, testDocument...), make([]byte, 64)...)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.config.Signing.MaxDocumentSize = int64(len(testDocument) + 10)
			env.service = signing.NewService(env.config, env.store, env.backend, env.clock)

			_, err := env.service.CreateSigningSession(context.Background(), &signing.CreateRequest{
				Document:      tt.doc,
				SignerAddress: testSignerAddress,
				UserID:        testUserID,
			})
			require.Error(t, err)
			assert.True(t, signing.IsKind(err, signing.KindInvalidDocument), err.Error())
			env.backend.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateSigningSessionInvalidRequest(t *testing.T) {
	env := newTestEnv(t)
	doc := &signing.Document{ContentType: signing.MIMETypePDF, Content: testDocument}

	_, err := env.service.CreateSigningSession(context.Background(), &signing.CreateRequest{Document: doc, SignerAddress: "not-an-address", UserID: testUserID})
	assert.ErrorIs(t, err, signing.ErrInvalidRequest)

	_, err = env.service.CreateSigningSession(context.Background(), &signing.CreateRequest{Document: doc, SignerAddress: testSignerAddress, UserID: "  "})
	assert.ErrorIs(t, err, signing.ErrInvalidRequest)

	_, err = env.service.CreateSigningSession(context.Background(), nil)
	assert.ErrorIs(t, err, signing.ErrInvalidRequest)

	env.backend.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestCreateSigningSessionBackendError(t *testing.T) {
	env := newTestEnv(t)

	backendErr := &signing.Error{Kind: signing.KindBackendUnavailable, Op: "CreateSession"}
	env.backend.On("CreateSession", mock.Anything, mock.Anything).Return(nil, backendErr).Once()

	_, err := env.service.CreateSigningSession(context.Background(), &signing.CreateRequest{
		Document:      &signing.Document{ContentType: signing.MIMETypePDF, Content: testDocument},
		SignerAddress: testSignerAddress,
		UserID:        testUserID,
	})
	assert.True(t, signing.IsKind(err, signing.KindBackendUnavailable))

	sessions, err := env.service.GetUserSessions(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestGetSigningSessionNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.GetSigningSession(context.Background(), "unknown")
	require.Error(t, err)
	assert.True(t, signing.IsKind(err, signing.KindSessionNotFound))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSignDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSession(t, testSessionID)

	env.backend.On("SignDocument", mock.Anything, &signing.BackendSignRequest{
		SessionID:     testSessionID,
		Signature:     testSignature,
		WalletAddress: testSignerAddress,
	}).Return(&signing.BackendSignResult{
		VerificationLink: "https://verify.example.com/session-1",
		DocumentURL:      "https://backend.example.com/api/web3-signing/sessions/session-1/document",
	}, nil).Once()

	env.clock.Advance(time.Minute)

	res, err := env.service.SignDocument(ctx, testSessionID, testSignature)
	require.NoError(t, err)
	env.backend.AssertExpectations(t)

	assert.Equal(t, testSessionID, res.SessionID)
	assert.Equal(t, testSignature, res.Signature)
	assert.Equal(t, testDocumentHash, res.DocumentHash)
	assert.Equal(t, store.StatusSigned, res.Status)
	assert.Equal(t, "https://verify.example.com/session-1", res.VerificationLink)

	session, err := env.service.GetSigningSession(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusSigned, session.Status)
	assert.Equal(t, testSignature, session.Signature)
	assert.Equal(t, res.DocumentURL, session.DocumentURL)
	assert.True(t, session.UpdatedAt.After(session.CreatedAt))

	// signing twice is rejected without another backend call
	_, err = env.service.SignDocument(ctx, testSessionID, testSignature)
	assert.True(t, signing.IsKind(err, signing.KindInvalidSignature))
	env.backend.AssertNumberOfCalls(t, "SignDocument", 1)
	assert.Equal(t, []signing.Status{store.StatusPending, store.StatusSigned}, env.observer.Statuses())
}

func TestSignDocumentMalformedSignature(t *testing.T) {
	env := newTestEnv(t)
	env.createSession(t, testSessionID)

	for _, signature := range []string{"", "0x", "0x1234", "deadbeef", testSignature[:len(testSignature)-2] + "05"} {
		_, err := env.service.SignDocument(context.Background(), testSessionID, signature)
		assert.True(t, signing.IsKind(err, signing.KindInvalidSignature), signature)
	}

	env.backend.AssertNotCalled(t, "SignDocument", mock.Anything, mock.Anything)
}

func TestSignDocumentUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.SignDocument(context.Background(), "unknown", testSignature)
	assert.True(t, signing.IsKind(err, signing.KindSessionNotFound))
}

func TestSignDocumentBackendRejection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSession(t, testSessionID)

	env.backend.On("SignDocument", mock.Anything, mock.Anything).
		Return(nil, &signing.Error{Kind: signing.KindBackend, StatusCode: http.StatusUnprocessableEntity, Body: `{"error":"bad signature"}`}).Once()

	_, err := env.service.SignDocument(ctx, testSessionID, testSignature)
	require.Error(t, err)
	assert.True(t, signing.IsKind(err, signing.KindBackend))

	session, err := env.service.GetSigningSession(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusFailed, session.Status)
	assert.Empty(t, session.Signature)
}

func TestSignDocumentBackendFailureKeepsPending(t *testing.T) {
	for _, backendErr := range []error{
		&signing.Error{Kind: signing.KindBackend, StatusCode: http.StatusBadGateway},
		&signing.Error{Kind: signing.KindBackendUnavailable},
	} {
		env := newTestEnv(t)
		ctx := context.Background()
		env.createSession(t, testSessionID)

		env.backend.On("SignDocument", mock.Anything, mock.Anything).Return(nil, backendErr).Once()

		_, err := env.service.SignDocument(ctx, testSessionID, testSignature)
		require.Error(t, err)

		session, err := env.service.GetSigningSession(ctx, testSessionID)
		require.NoError(t, err)
		assert.Equal(t, store.StatusPending, session.Status)
	}
}

func TestSignDocumentExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSession(t, testSessionID)

	env.clock.Advance(2 * time.Hour)

	_, err := env.service.SignDocument(ctx, testSessionID, testSignature)
	assert.True(t, signing.IsKind(err, signing.KindSessionExpired))

	session, err := env.service.GetSigningSession(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusExpired, session.Status)

	_, err = env.service.SignDocument(ctx, testSessionID, testSignature)
	assert.True(t, signing.IsKind(err, signing.KindSessionExpired))
	env.backend.AssertNotCalled(t, "SignDocument", mock.Anything, mock.Anything)
}

func TestSignDocumentMessageMismatch(t *testing.T) {
	env := newTestEnv(t)
	env.createSession(t, testSessionID)

	tests := []struct {
		name string
		msg  typeddata.Message
	}{
		{name: "session", msg: typeddata.Message{SessionID: "session-2", WalletAddress: testSignerAddress, DocumentHash: testDocumentHash}},
		{name: "wallet", msg: typeddata.Message{SessionID: testSessionID, WalletAddress: "0x0000000000000000000000000000000000000001", DocumentHash: testDocumentHash}},
		{name: "document", msg: typeddata.Message{SessionID: testSessionID, WalletAddress: testSignerAddress, DocumentHash: "0x" + "00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.SignDocument(context.Background(), testSessionID, testSignature, signing.WithSignedMessage(tt.msg))
			assert.True(t, signing.IsKind(err, signing.KindInvalidSignature))
		})
	}

	env.backend.AssertNotCalled(t, "SignDocument", mock.Anything, mock.Anything)
}

func TestSignDocumentWithSignedMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSession(t, testSessionID)

	deriver, err := wallet.NewDeriver(env.config.Wallet)
	require.NoError(t, err)

	identity, err := deriver.Derive(testIdentifier)
	require.NoError(t, err)

	msg := typeddata.NewMessage(testSessionID, testSignerAddress, testDocumentHash, env.clock.Now())
	signature, err := typeddata.Sign(typeddata.Build(*testDomain(), msg), identity.PrivateKey)
	require.NoError(t, err)

	env.backend.On("GetEIP712Domain", mock.Anything).Return(testDomain(), nil)
	env.backend.On("SignDocument", mock.Anything, mock.MatchedBy(func(req *signing.BackendSignRequest) bool {
		return req.Message != nil && req.Message.Timestamp == msg.Timestamp && req.Signature == signature
	})).Return(&signing.BackendSignResult{VerificationLink: "https://verify.example.com/session-1"}, nil).Once()

	chainID := int64(137)
	res, err := env.service.SignDocument(ctx, testSessionID, signature, signing.WithSignedMessage(msg), signing.WithChainID(&chainID))
	require.NoError(t, err)
	assert.Equal(t, store.StatusSigned, res.Status)
	env.backend.AssertExpectations(t)
}

func TestSignDocumentWithSignedMessageWrongSigner(t *testing.T) {
	env := newTestEnv(t)
	env.createSession(t, testSessionID)

	deriver, err := wallet.NewDeriver(env.config.Wallet)
	require.NoError(t, err)

	other, err := deriver.Derive("alice@example.com")
	require.NoError(t, err)

	msg := typeddata.NewMessage(testSessionID, testSignerAddress, testDocumentHash, env.clock.Now())
	signature, err := typeddata.Sign(typeddata.Build(*testDomain(), msg), other.PrivateKey)
	require.NoError(t, err)

	env.backend.On("GetEIP712Domain", mock.Anything).Return(testDomain(), nil)

	chainID := int64(137)
	_, err = env.service.SignDocument(context.Background(), testSessionID, signature, signing.WithSignedMessage(msg), signing.WithChainID(&chainID))
	assert.True(t, signing.IsKind(err, signing.KindInvalidSignature))
	env.backend.AssertNotCalled(t, "SignDocument", mock.Anything, mock.Anything)
}

func TestSignDocumentConcurrent(t *testing.T) {
	env := newTestEnv(t)
	env.createSession(t, testSessionID)

	env.backend.On("SignDocument", mock.Anything, mock.Anything).Return(&signing.BackendSignResult{VerificationLink: "https://verify.example.com/session-1"}, nil)

	const workers = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := env.service.SignDocument(context.Background(), testSessionID, testSignature); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.True(t, signing.IsKind(err, signing.KindInvalidSignature))
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, successes)
	env.backend.AssertNumberOfCalls(t, "SignDocument", 1)
}

func TestSignWithDerivedWallet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSession(t, testSessionID)

	env.backend.On("GetEIP712Domain", mock.Anything).Return(testDomain(), nil).Once()
	env.backend.On("SignDocument", mock.Anything, mock.MatchedBy(func(req *signing.BackendSignRequest) bool {
		if req.Message == nil || req.Message.WalletAddress != testSignerAddress {
			return false
		}

		td := typeddata.Build(testDomain().WithChainID(137), *req.Message)
		recovered, err := typeddata.RecoverSigner(td, req.Signature)
		return err == nil && recovered == testSignerAddress
	})).Return(&signing.BackendSignResult{VerificationLink: "https://verify.example.com/session-1"}, nil).Once()

	res, err := env.service.SignWithDerivedWallet(ctx, testSessionID, testIdentifier, nil)
	require.NoError(t, err)
	assert.Equal(t, store.StatusSigned, res.Status)
	env.backend.AssertExpectations(t)
}

func TestSignWithDerivedWalletBackendTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSession(t, testSessionID)

	domain := testDomain()
	domain.Types = map[string][]typeddata.Field{
		typeddata.PrimaryType: {
			{Name: "sessionId", Type: "string"},
			{Name: "documentHash", Type: "bytes32"},
		},
	}

	env.backend.On("GetEIP712Domain", mock.Anything).Return(domain, nil).Once()
	env.backend.On("SignDocument", mock.Anything, mock.MatchedBy(func(req *signing.BackendSignRequest) bool {
		td := typeddata.Build(*domain, *req.Message)
		recovered, err := typeddata.RecoverSigner(td, req.Signature)
		return err == nil && recovered == testSignerAddress
	})).Return(&signing.BackendSignResult{VerificationLink: "https://verify.example.com/session-1"}, nil).Once()

	res, err := env.service.SignWithDerivedWallet(ctx, testSessionID, testIdentifier, nil)
	require.NoError(t, err)
	assert.Equal(t, store.StatusSigned, res.Status)
	env.backend.AssertExpectations(t)
}

func TestSignWithDerivedWalletUnknownDeclaredField(t *testing.T) {
	env := newTestEnv(t)
	env.createSession(t, testSessionID)

	domain := testDomain()
	domain.Types = map[string][]typeddata.Field{
		typeddata.PrimaryType: {
			{Name: "sessionId", Type: "string"},
			{Name: "purpose", Type: "string"},
		},
	}
	env.backend.On("GetEIP712Domain", mock.Anything).Return(domain, nil).Once()

	_, err := env.service.SignWithDerivedWallet(context.Background(), testSessionID, testIdentifier, nil)
	require.ErrorIs(t, err, typeddata.ErrMissingField)
	assert.True(t, signing.IsKind(err, signing.KindBackend))

	env.backend.AssertNotCalled(t, "SignDocument", mock.Anything, mock.Anything)
}

func TestSignWithDerivedWalletMismatch(t *testing.T) {
	env := newTestEnv(t)
	env.createSession(t, testSessionID)

	_, err := env.service.SignWithDerivedWallet(context.Background(), testSessionID, "alice@example.com", nil)
	assert.True(t, signing.IsKind(err, signing.KindInvalidSignature))

	_, err = env.service.SignWithDerivedWallet(context.Background(), testSessionID, "   ", nil)
	assert.True(t, signing.IsKind(err, signing.KindInvalidIdentifier))

	env.backend.AssertNotCalled(t, "SignDocument", mock.Anything, mock.Anything)
}

func TestDeriveWallet(t *testing.T) {
	env := newTestEnv(t)

	address, err := env.service.DeriveWallet(testIdentifier)
	require.NoError(t, err)
	assert.Equal(t, testSignerAddress, address)

	_, err = env.service.DeriveWallet("")
	assert.True(t, signing.IsKind(err, signing.KindInvalidIdentifier))

	disabled := env.config
	disabled.Wallet.DemoDerivationEnabled = false
	svc := signing.NewService(disabled, env.store, env.backend, env.clock)

	_, err = svc.DeriveWallet(testIdentifier)
	assert.ErrorIs(t, err, signing.ErrDerivationDisabled)

	_, err = svc.SignWithDerivedWallet(context.Background(), testSessionID, testIdentifier, nil)
	assert.ErrorIs(t, err, signing.ErrDerivationDisabled)
}

func TestGetEIP712DomainChainID(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.On("GetEIP712Domain", mock.Anything).Return(testDomain(), nil)

		chainID := int64(11155111)
		domain, err := env.service.GetEIP712Domain(ctx, &chainID)
		require.NoError(t, err)
		assert.Equal(t, int64(11155111), domain.ChainID)
		assert.Equal(t, "MST Document Signing", domain.Name)
	})

	t.Run("invalid explicit", func(t *testing.T) {
		env := newTestEnv(t)

		chainID := int64(0)
		_, err := env.service.GetEIP712Domain(ctx, &chainID)
		assert.ErrorIs(t, err, signing.ErrInvalidRequest)
		env.backend.AssertNotCalled(t, "GetEIP712Domain", mock.Anything)
	})

	t.Run("resolver", func(t *testing.T) {
		resolver := new(MockChainResolver)
		resolver.On("ChainID", mock.Anything).Return(int64(10), nil)

		env := newTestEnv(t, signing.WithChainResolver(resolver))
		env.backend.On("GetEIP712Domain", mock.Anything).Return(testDomain(), nil)

		domain, err := env.service.GetEIP712Domain(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(10), domain.ChainID)
	})

	t.Run("resolver error falls back to backend", func(t *testing.T) {
		resolver := new(MockChainResolver)
		resolver.On("ChainID", mock.Anything).Return(int64(0), assert.AnError)

		env := newTestEnv(t, signing.WithChainResolver(resolver))
		env.backend.On("GetEIP712Domain", mock.Anything).Return(testDomain(), nil)

		domain, err := env.service.GetEIP712Domain(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(137), domain.ChainID)
	})

	t.Run("default", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.On("GetEIP712Domain", mock.Anything).Return(&typeddata.Domain{Name: "MST Document Signing", Version: "1"}, nil)

		domain, err := env.service.GetEIP712Domain(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, env.config.Chain.DefaultChainID, domain.ChainID)
	})

	t.Run("backend error", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.On("GetEIP712Domain", mock.Anything).Return(nil, &signing.Error{Kind: signing.KindBackendUnavailable})

		_, err := env.service.GetEIP712Domain(ctx, nil)
		assert.True(t, signing.IsKind(err, signing.KindBackendUnavailable))
	})
}

func TestGetVerificationLinkCachesFetchedLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSession(t, testSessionID)

	env.backend.On("GetVerificationLink", mock.Anything, testSessionID).Return("https://verify.example.com/session-1", nil).Once()

	link, err := env.service.GetVerificationLink(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, "https://verify.example.com/session-1", link)

	link, err = env.service.GetVerificationLink(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, "https://verify.example.com/session-1", link)

	env.backend.AssertNumberOfCalls(t, "GetVerificationLink", 1)

	session, err := env.service.GetSigningSession(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, "https://verify.example.com/session-1", session.VerificationLink)
	assert.Equal(t, store.StatusPending, session.Status)

	_, err = env.service.GetVerificationLink(ctx, "unknown")
	assert.True(t, signing.IsKind(err, signing.KindSessionNotFound))
}

func TestGetSignedDocument(t *testing.T) {
	env := newTestEnv(t)

	env.backend.On("GetSignedDocument", mock.Anything, testSessionID).Return(testDocument, nil).Once()

	doc, err := env.service.GetSignedDocument(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, testDocument, doc)
}

func TestVerifySignature(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSession(t, testSessionID)
	env.createSession(t, "session-2")

	env.backend.On("VerifySignature", mock.Anything, testSessionID).Return(true, nil)
	env.backend.On("VerifySignature", mock.Anything, "session-2").Return(false, assert.AnError)

	assert.True(t, env.service.VerifySignature(ctx, testSessionID))
	assert.False(t, env.service.VerifySignature(ctx, "session-2"))
	assert.False(t, env.service.VerifySignature(ctx, "unknown"))
}

func TestMarkVerified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSession(t, testSessionID)

	_, err := env.service.MarkVerified(ctx, testSessionID)
	assert.True(t, signing.IsKind(err, signing.KindInvalidSignature), "pending sessions cannot be verified")

	env.backend.On("SignDocument", mock.Anything, mock.Anything).Return(&signing.BackendSignResult{}, nil).Once()
	_, err = env.service.SignDocument(ctx, testSessionID, testSignature)
	require.NoError(t, err)

	session, err := env.service.MarkVerified(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusVerified, session.Status)

	session, err = env.service.MarkVerified(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusVerified, session.Status)
}

func TestExpireStaleSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createSession(t, "session-old")
	env.clock.Advance(50 * time.Minute)
	env.createSession(t, "session-new")
	env.clock.Advance(20 * time.Minute)

	expired, err := env.service.ExpireStaleSessions(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	old, err := env.service.GetSigningSession(ctx, "session-old")
	require.NoError(t, err)
	assert.Equal(t, store.StatusExpired, old.Status)

	fresh, err := env.service.GetSigningSession(ctx, "session-new")
	require.NoError(t, err)
	assert.Equal(t, store.StatusPending, fresh.Status)

	expired, err = env.service.ExpireStaleSessions(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	expired, err = env.service.ExpireStaleSessions(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

func TestGetUserSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createSession(t, "session-a")
	env.createSession(t, "session-b")
	env.createSession(t, "session-c")

	sessions, err := env.service.GetUserSessions(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "session-a", sessions[0].SessionID)
	assert.Equal(t, "session-b", sessions[1].SessionID)
	assert.Equal(t, "session-c", sessions[2].SessionID)

	sessions, err = env.service.GetUserSessions(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = env.service.GetUserSessions(ctx, "")
	assert.ErrorIs(t, err, signing.ErrInvalidRequest)
}

func TestCancelSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSession(t, testSessionID)
	env.createSession(t, "session-b")

	require.NoError(t, env.service.CancelSession(ctx, testSessionID))

	_, err := env.service.GetSigningSession(ctx, testSessionID)
	assert.True(t, signing.IsKind(err, signing.KindSessionNotFound))

	sessions, err := env.service.GetUserSessions(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "session-b", sessions[0].SessionID)

	// the backend copy stays reachable
	env.backend.On("GetSignedDocument", mock.Anything, testSessionID).Return(testDocument, nil).Once()

	doc, err := env.service.GetSignedDocument(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, testDocument, doc)
	env.backend.AssertExpectations(t)

	err = env.service.CancelSession(ctx, testSessionID)
	assert.True(t, signing.IsKind(err, signing.KindSessionNotFound))
}
