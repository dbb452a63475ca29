// Package backend talks to the external signing and verification service over
// its /api/web3-signing HTTP API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/signing/typeddata"
	"github/chapool/go-docsign/internal/util"
)

const (
	HeaderAPIKey = "X-API-Key"

	basePath       = "/api/web3-signing"
	defaultTimeout = 30 * time.Second

	// maxErrorBody caps the response body kept on errors.
	maxErrorBody = 4 << 10
)

// Observer receives one call per backend request.
type Observer interface {
	ObserveBackendRequest(operation string, outcome string, duration time.Duration)
}

// Client is a stateless signing.Backend over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	observer   Observer
}

var _ signing.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithObserver reports every request to o.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient fails with signing.ErrBackendNotConfigured when the base URL or
// the API key is missing.
func NewClient(cfg config.Backend, opts ...Option) (*Client, error) {
	if !cfg.Configured() {
		return nil, signing.ErrBackendNotConfigured
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, errors.Wrapf(err, "invalid signing backend URL %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// DocumentURL returns the download URL of the signed document of sessionID.
func (c *Client) DocumentURL(sessionID string) string {
	return c.endpoint("sessions", sessionID, "document")
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}

	return c.baseURL + basePath + "/" + strings.Join(escaped, "/")
}

type createSessionResponse struct {
	SessionID    string          `json:"sessionId"`
	DocumentHash string          `json:"documentHash"`
	Timestamp    json.RawMessage `json:"timestamp"`
}

func (c *Client) CreateSession(ctx context.Context, req *signing.BackendSessionRequest) (*signing.BackendSession, error) {
	const op = "CreateSession"

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fileName := req.FileName
	if fileName == "" {
		fileName = "document.pdf"
	}

	part, err := form.CreatePart(documentPartHeader(fileName))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create document part")
	}
	if _, err := part.Write(req.Document); err != nil {
		return nil, errors.Wrap(err, "failed to write document part")
	}

	for _, field := range [][2]string{
		{"signerAddress", req.SignerAddress},
		{"userID", req.UserID},
		{"message", req.Message},
		{"timestamp", req.Timestamp},
	} {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return nil, errors.Wrapf(err, "failed to write form field %s", field[0])
		}
	}

	if err := form.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to close multipart form")
	}

	var res createSessionResponse
	if err := c.doJSON(ctx, op, "", http.MethodPost, c.endpoint("sessions"), form.FormDataContentType(), body, &res); err != nil {
		return nil, err
	}

	return &signing.BackendSession{
		SessionID:    res.SessionID,
		DocumentHash: res.DocumentHash,
		Timestamp:    rawString(res.Timestamp),
	}, nil
}

type signRequest struct {
	SessionID     string         `json:"sessionId"`
	Signature     string         `json:"signature"`
	WalletAddress string         `json:"walletAddress,omitempty"`
	Message       *signedMessage `json:"message,omitempty"`
	Timestamp     int64          `json:"timestamp,omitempty"`
}

type signedMessage struct {
	SessionID     string `json:"sessionId"`
	WalletAddress string `json:"walletAddress"`
	DocumentHash  string `json:"documentHash"`
	Timestamp     int64  `json:"timestamp"`
}

type verificationLinkResponse struct {
	VerificationLink string `json:"verificationLink"`
	Link             string `json:"link"`
	URL              string `json:"url"`
}

func (r verificationLinkResponse) value() string {
	switch {
	case r.VerificationLink != "":
		return r.VerificationLink
	case r.Link != "":
		return r.Link
	default:
		return r.URL
	}
}

// SignDocument submits the signature and resolves the verification link. A
// link missing from the sign response is fetched separately, failing that the
// result carries no link since the signature itself was accepted.
func (c *Client) SignDocument(ctx context.Context, req *signing.BackendSignRequest) (*signing.BackendSignResult, error) {
	const op = "SignDocument"

	payload := signRequest{
		SessionID:     req.SessionID,
		Signature:     req.Signature,
		WalletAddress: req.WalletAddress,
	}
	if req.Message != nil {
		payload.Message = &signedMessage{
			SessionID:     req.Message.SessionID,
			WalletAddress: req.Message.WalletAddress,
			DocumentHash:  req.Message.DocumentHash,
			Timestamp:     req.Message.Timestamp,
		}
		payload.Timestamp = req.Message.Timestamp
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode sign request")
	}

	var res verificationLinkResponse
	if err := c.doJSON(ctx, op, req.SessionID, http.MethodPost, c.endpoint("sign"), echo.MIMEApplicationJSON, bytes.NewReader(body), &res); err != nil {
		return nil, err
	}

	link := res.value()
	if link == "" {
		link, err = c.GetVerificationLink(ctx, req.SessionID)
		if err != nil {
			util.LogFromContext(ctx).Warn().Err(err).Str("sessionId", req.SessionID).Msg("Signature accepted but verification link could not be fetched")
			link = ""
		}
	}

	return &signing.BackendSignResult{
		VerificationLink: link,
		DocumentURL:      c.DocumentURL(req.SessionID),
	}, nil
}

func (c *Client) GetEIP712Domain(ctx context.Context) (*typeddata.Domain, error) {
	const op = "GetEIP712Domain"

	var res domainResponse
	if err := c.doJSON(ctx, op, "", http.MethodGet, c.endpoint("eip712-domain"), "", nil, &res); err != nil {
		return nil, err
	}

	domain, err := res.toDomain()
	if err != nil {
		return nil, signing.NewError(signing.KindBackend, op, "malformed EIP-712 domain", err)
	}

	return domain, nil
}

func (c *Client) GetVerificationLink(ctx context.Context, sessionID string) (string, error) {
	const op = "GetVerificationLink"

	var res verificationLinkResponse
	if err := c.doJSON(ctx, op, sessionID, http.MethodGet, c.endpoint("sessions", sessionID, "verification-link"), "", nil, &res); err != nil {
		return "", err
	}

	link := res.value()
	if link == "" {
		return "", signing.NewError(signing.KindBackend, op, "response carries no verification link", nil).WithSession(sessionID)
	}

	return link, nil
}

func (c *Client) GetSignedDocument(ctx context.Context, sessionID string) ([]byte, error) {
	const op = "GetSignedDocument"

	resp, err := c.do(ctx, op, sessionID, http.MethodGet, c.DocumentURL(sessionID), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	document, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, signing.NewError(signing.KindBackendUnavailable, op, "failed to read document", err).WithSession(sessionID)
	}

	return document, nil
}

// VerifySignature reports whether the backend resolves a verification link for sessionID.
func (c *Client) VerifySignature(ctx context.Context, sessionID string) (bool, error) {
	link, err := c.GetVerificationLink(ctx, sessionID)
	if err != nil {
		return false, err
	}

	return link != "", nil
}

func (c *Client) doJSON(ctx context.Context, op string, sessionID string, method string, endpoint string, contentType string, body io.Reader, out interface{}) error {
	resp, err := c.do(ctx, op, sessionID, method, endpoint, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTransportError(err) {
			return signing.NewError(signing.KindBackendUnavailable, op, "failed to read response body", err).WithSession(sessionID)
		}
		return signing.NewError(signing.KindBackend, op, "malformed response body", err).WithSession(sessionID)
	}

	return nil
}

// isTransportError reports whether err was caused by the connection rather
// than by the content of the response.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}

// do performs the request and returns the response of a 2xx status. The caller
// closes the body. sessionID is attached to returned errors and may be empty.
func (c *Client) do(ctx context.Context, op string, sessionID string, method string, endpoint string, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create backend request")
	}

	req.Header.Set(HeaderAPIKey, c.apiKey)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}

	logger := util.LogFromContext(ctx).With().Str("operation", op).Str("method", method).Str("url", endpoint).Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.observe(op, "error", duration)
		logger.Debug().Err(err).Dur("duration", duration).Msg("Signing backend unreachable")
		return nil, signing.NewError(signing.KindBackendUnavailable, op, "signing backend unreachable", err).WithSession(sessionID)
	}

	c.observe(op, fmt.Sprintf("%dxx", resp.StatusCode/100), duration)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()

		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Debug().Int("status", resp.StatusCode).Str("body", string(errBody)).Msg("Signing backend returned an error status")

		return nil, &signing.Error{
			Kind:       signing.KindBackend,
			Op:         op,
			SessionID:  sessionID,
			Message:    fmt.Sprintf("signing backend returned status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       string(errBody),
		}
	}

	logger.Debug().Int("status", resp.StatusCode).Dur("duration", duration).Msg("Signing backend request completed")

	return resp, nil
}

func (c *Client) observe(op string, outcome string, duration time.Duration) {
	if c.observer != nil {
		c.observer.ObserveBackendRequest(op, outcome, duration)
	}
}

// rawString accepts both JSON strings and numbers.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}
