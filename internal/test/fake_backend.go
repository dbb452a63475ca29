package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/data/fixtures"
	"github/chapool/go-docsign/internal/signing/backend"
	"github/chapool/go-docsign/internal/signing/typeddata"
)

const (
	FakeBackendAPIKey            = "test-api-key"
	FakeBackendDomainName        = "MST Document Signing"
	FakeBackendVerifyingContract = "0x00000000000000000000000000000000000000a1"
)

// FakeSignRequest is a signature submission as received by the FakeBackend.
type FakeSignRequest struct {
	SessionID     string                 `json:"sessionId"`
	Signature     string                 `json:"signature"`
	WalletAddress string                 `json:"walletAddress"`
	Message       map[string]interface{} `json:"message"`
	Timestamp     int64                  `json:"timestamp"`
}

type fakeSession struct {
	documentHash string
	signed       bool
}

// FakeBackend is an in-process signing backend serving the /api/web3-signing
// API. Sessions are signed as soon as a signature is submitted.
type FakeBackend struct {
	Server *httptest.Server

	mu           sync.Mutex
	sessions     map[string]*fakeSession
	signRequests []FakeSignRequest
	failStatus   int
	chainID      int64
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		sessions: make(map[string]*fakeSession),
		chainID:  1,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	g := e.Group("/api/web3-signing", f.requireAPIKey, f.failing)
	g.POST("/sessions", f.createSession)
	g.POST("/sign", f.sign)
	g.GET("/eip712-domain", f.domain)
	g.GET("/sessions/:id/verification-link", f.verificationLink)
	g.GET("/sessions/:id/document", f.document)

	f.Server = httptest.NewServer(e)
	t.Cleanup(f.Server.Close)

	return f
}

// Config returns a backend configuration pointing at f.
func (f *FakeBackend) Config() config.Backend {
	return config.Backend{
		BaseURL: f.Server.URL,
		APIKey:  FakeBackendAPIKey,
		Timeout: 5 * time.Second,
	}
}

// FailWith makes every following request fail with status. 0 resets.
func (f *FakeBackend) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failStatus = status
}

// SetChainID changes the chain id published with the EIP-712 domain.
func (f *FakeBackend) SetChainID(chainID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.chainID = chainID
}

// SignRequests returns every accepted signature submission in arrival order.
func (f *FakeBackend) SignRequests() []FakeSignRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := make([]FakeSignRequest, len(f.signRequests))
	copy(res, f.signRequests)

	return res
}

// SessionCount returns the number of sessions registered with f.
func (f *FakeBackend) SessionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sessions)
}

// VerificationLink is the link f hands out for sessionID.
func (f *FakeBackend) VerificationLink(sessionID string) string {
	return f.Server.URL + "/verify/" + sessionID
}

// SignedDocument is the document f serves for a signed session.
func SignedDocument(sessionID string) []byte {
	return fixtures.MinimalPDF("Signed document", sessionID)
}

func (f *FakeBackend) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(backend.HeaderAPIKey) != FakeBackendAPIKey {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
		}

		return next(c)
	}
}

func (f *FakeBackend) failing(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		f.mu.Lock()
		status := f.failStatus
		f.mu.Unlock()

		if status != 0 {
			return c.JSON(status, map[string]string{"error": http.StatusText(status)})
		}

		return next(c)
	}
}

func (f *FakeBackend) createSession(c echo.Context) error {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "document is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	document, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	if c.FormValue("signerAddress") == "" || c.FormValue("userID") == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "signerAddress and userID are required"})
	}

	sessionID := uuid.NewString()
	documentHash := typeddata.HashDocument(document)

	f.mu.Lock()
	f.sessions[sessionID] = &fakeSession{documentHash: documentHash}
	f.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessionId":    sessionID,
		"documentHash": documentHash,
		"timestamp":    c.FormValue("timestamp"),
	})
}

func (f *FakeBackend) sign(c echo.Context) error {
	var req FakeSignRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[req.SessionID]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	if session.signed {
		return c.JSON(http.StatusConflict, map[string]string{"error": "session already signed"})
	}

	session.signed = true
	f.signRequests = append(f.signRequests, req)

	return c.JSON(http.StatusOK, map[string]string{
		"verificationLink": f.VerificationLink(req.SessionID),
	})
}

func (f *FakeBackend) domain(c echo.Context) error {
	f.mu.Lock()
	chainID := f.chainID
	f.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"domain": map[string]interface{}{
			"name":              FakeBackendDomainName,
			"version":           "1",
			"chainId":           chainID,
			"verifyingContract": FakeBackendVerifyingContract,
		},
		"types": map[string][]typeddata.Field{
			typeddata.PrimaryType: typeddata.DefaultFields,
		},
	})
}

func (f *FakeBackend) signedSession(c echo.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[c.Param("id")]

	return ok && session.signed
}

func (f *FakeBackend) verificationLink(c echo.Context) error {
	if !f.signedSession(c) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not signed"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"verificationLink": f.VerificationLink(c.Param("id")),
	})
}

func (f *FakeBackend) document(c echo.Context) error {
	if !f.signedSession(c) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not signed"})
	}

	return c.Blob(http.StatusOK, "application/pdf", SignedDocument(c.Param("id")))
}
