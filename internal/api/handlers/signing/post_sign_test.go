package signing_test

import (
	"net/http"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/data/fixtures"
	"github/chapool/go-docsign/internal/signing/typeddata"
	"github/chapool/go-docsign/internal/test"
	"github/chapool/go-docsign/internal/types"
)

func TestPostSign(t *testing.T) {
	test.WithTestServerAndBackend(t, func(s *api.Server, fb *test.FakeBackend) {
		created := createSession(t, s, fixtures.SignerAddress, fixtures.MinimalPDF("Contract"))
		sessionID := swag.StringValue(created.SessionID)

		payload := test.GenericPayload{
			"sessionId": sessionID,
			"signature": anySignature,
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", payload, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		var response types.SignResponse
		test.ParseResponseAndValidate(t, res, &response)

		assert.Equal(t, sessionID, swag.StringValue(response.SessionID))
		assert.Equal(t, anySignature, swag.StringValue(response.Signature))
		assert.Equal(t, swag.StringValue(created.DocumentHash), swag.StringValue(response.DocumentHash))
		assert.Equal(t, "signed", swag.StringValue(response.Status))
		assert.Equal(t, fb.VerificationLink(sessionID), response.VerificationLink)
		assert.Equal(t, fb.Server.URL+"/api/web3-signing/sessions/"+sessionID+"/document", response.SignedDocumentURL)

		requests := fb.SignRequests()
		require.Len(t, requests, 1)
		assert.Equal(t, fixtures.SignerAddress, requests[0].WalletAddress)
		assert.Nil(t, requests[0].Message)

		requireStatus(t, s, sessionID, "signed")
	})
}

func TestPostSignWithMessage(t *testing.T) {
	test.WithTestServerAndBackend(t, func(s *api.Server, fb *test.FakeBackend) {
		ctx := t.Context()

		identity, err := s.Wallet.Derive(testIdentifier)
		require.NoError(t, err)
		defer identity.Zero()

		created := createSession(t, s, identity.Address, fixtures.MinimalPDF("Contract"))
		sessionID := swag.StringValue(created.SessionID)

		domain, err := s.Signing.GetEIP712Domain(ctx, nil)
		require.NoError(t, err)

		msg := typeddata.NewMessage(sessionID, identity.Address, swag.StringValue(created.DocumentHash), s.Clock.Now())
		signature, err := typeddata.Sign(typeddata.Build(*domain, msg), identity.PrivateKey)
		require.NoError(t, err)

		payload := test.GenericPayload{
			"sessionId": sessionID,
			"signature": signature,
			"message": test.GenericPayload{
				"sessionId":     msg.SessionID,
				"walletAddress": msg.WalletAddress,
				"documentHash":  msg.DocumentHash,
				"timestamp":     msg.Timestamp,
			},
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", payload, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		requests := fb.SignRequests()
		require.Len(t, requests, 1)
		assert.Equal(t, msg.Timestamp, requests[0].Timestamp)
		assert.Equal(t, sessionID, requests[0].Message["sessionId"])
	})
}

func TestPostSignWithMessageOnOtherChain(t *testing.T) {
	test.WithTestServerAndBackend(t, func(s *api.Server, fb *test.FakeBackend) {
		identity, err := s.Wallet.Derive(testIdentifier)
		require.NoError(t, err)
		defer identity.Zero()

		created := createSession(t, s, identity.Address, fixtures.MinimalPDF("Contract"))
		sessionID := swag.StringValue(created.SessionID)

		res := test.PerformRequestWithParams(t, s, "GET", "/api/v1/signing/eip712-domain", nil, nil, map[string]string{"chainId": "137"})
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		domain, err := s.Signing.GetEIP712Domain(t.Context(), swag.Int64(137))
		require.NoError(t, err)
		require.Equal(t, int64(137), domain.ChainID)

		msg := typeddata.NewMessage(sessionID, identity.Address, swag.StringValue(created.DocumentHash), s.Clock.Now())
		signature, err := typeddata.Sign(typeddata.Build(*domain, msg), identity.PrivateKey)
		require.NoError(t, err)

		message := test.GenericPayload{
			"sessionId":     msg.SessionID,
			"walletAddress": msg.WalletAddress,
			"documentHash":  msg.DocumentHash,
			"timestamp":     msg.Timestamp,
		}

		// recovered under the default chain the signer does not match
		res = test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", test.GenericPayload{
			"sessionId": sessionID,
			"signature": signature,
			"message":   message,
		}, nil)
		test.RequireHTTPError(t, res, expectedError(http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDSIGNATURE))
		requireStatus(t, s, sessionID, "pending")

		res = test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", test.GenericPayload{
			"sessionId": sessionID,
			"signature": signature,
			"message":   message,
			"chainId":   137,
		}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		require.Len(t, fb.SignRequests(), 1)
		requireStatus(t, s, sessionID, "signed")
	})
}

func TestPostSignInvalidChainID(t *testing.T) {
	test.WithTestServerAndBackend(t, func(s *api.Server, fb *test.FakeBackend) {
		created := createSession(t, s, fixtures.SignerAddress, fixtures.MinimalPDF("Contract"))

		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", test.GenericPayload{
			"sessionId": swag.StringValue(created.SessionID),
			"signature": anySignature,
			"chainId":   0,
		}, nil)
		test.RequireHTTPError(t, res, expectedError(http.StatusBadRequest, types.PublicHTTPErrorTypeMISSINGFIELDS))

		assert.Empty(t, fb.SignRequests())
	})
}

func TestPostSignWithMessageWrongSigner(t *testing.T) {
	test.WithTestServerAndBackend(t, func(s *api.Server, fb *test.FakeBackend) {
		ctx := t.Context()

		identity, err := s.Wallet.Derive(testIdentifier)
		require.NoError(t, err)
		defer identity.Zero()

		// the session belongs to another signer
		created := createSession(t, s, fixtures.SignerAddress, fixtures.MinimalPDF("Contract"))
		sessionID := swag.StringValue(created.SessionID)

		domain, err := s.Signing.GetEIP712Domain(ctx, nil)
		require.NoError(t, err)

		msg := typeddata.NewMessage(sessionID, fixtures.SignerAddress, swag.StringValue(created.DocumentHash), s.Clock.Now())
		signature, err := typeddata.Sign(typeddata.Build(*domain, msg), identity.PrivateKey)
		require.NoError(t, err)

		payload := test.GenericPayload{
			"sessionId": sessionID,
			"signature": signature,
			"message": test.GenericPayload{
				"sessionId":     msg.SessionID,
				"walletAddress": msg.WalletAddress,
				"documentHash":  msg.DocumentHash,
				"timestamp":     msg.Timestamp,
			},
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", payload, nil)
		test.RequireHTTPError(t, res, expectedError(http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDSIGNATURE))

		assert.Empty(t, fb.SignRequests())
		requireStatus(t, s, sessionID, "pending")
	})
}

func TestPostSignMalformedSignature(t *testing.T) {
	test.WithTestServerAndBackend(t, func(s *api.Server, fb *test.FakeBackend) {
		created := createSession(t, s, fixtures.SignerAddress, fixtures.MinimalPDF("Contract"))

		payload := test.GenericPayload{
			"sessionId": swag.StringValue(created.SessionID),
			"signature": "0x1234",
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", payload, nil)
		test.RequireHTTPError(t, res, expectedError(http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDSIGNATURE))

		assert.Empty(t, fb.SignRequests())
	})
}

func TestPostSignMissingFields(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", test.GenericPayload{"signature": anySignature}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		var response types.PublicHTTPValidationError
		test.ParseResponseBody(t, res, &response)
		assert.Equal(t, types.PublicHTTPErrorTypeMISSINGFIELDS, *response.Type)
		require.Len(t, response.ValidationErrors, 1)
		assert.Equal(t, "sessionId", swag.StringValue(response.ValidationErrors[0].Key))
	})
}

func TestPostSignUnknownSession(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := test.GenericPayload{
			"sessionId": "00000000-0000-0000-0000-000000000000",
			"signature": anySignature,
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", payload, nil)
		test.RequireHTTPError(t, res, expectedError(http.StatusNotFound, types.PublicHTTPErrorTypeSESSIONNOTFOUND))
	})
}

func TestPostSignTwice(t *testing.T) {
	test.WithTestServerAndBackend(t, func(s *api.Server, fb *test.FakeBackend) {
		created := createSession(t, s, fixtures.SignerAddress, fixtures.MinimalPDF("Contract"))

		payload := test.GenericPayload{
			"sessionId": swag.StringValue(created.SessionID),
			"signature": anySignature,
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", payload, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", payload, nil)
		test.RequireHTTPError(t, res, expectedError(http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDSIGNATURE))

		assert.Len(t, fb.SignRequests(), 1)
	})
}

func TestPostSignBackendRejectsFailsSession(t *testing.T) {
	test.WithTestServerAndBackend(t, func(s *api.Server, fb *test.FakeBackend) {
		created := createSession(t, s, fixtures.SignerAddress, fixtures.MinimalPDF("Contract"))
		sessionID := swag.StringValue(created.SessionID)

		fb.FailWith(http.StatusBadRequest)

		payload := test.GenericPayload{
			"sessionId": sessionID,
			"signature": anySignature,
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", payload, nil)
		response := test.RequireHTTPError(t, res, expectedError(http.StatusInternalServerError, types.PublicHTTPErrorTypeBACKENDERROR))
		assert.Equal(t, "The signing service rejected the request.", swag.StringValue(response.Title))

		fb.FailWith(0)
		requireStatus(t, s, sessionID, "failed")
	})
}

func TestPostSignBackendErrorKeepsSessionPending(t *testing.T) {
	test.WithTestServerAndBackend(t, func(s *api.Server, fb *test.FakeBackend) {
		created := createSession(t, s, fixtures.SignerAddress, fixtures.MinimalPDF("Contract"))
		sessionID := swag.StringValue(created.SessionID)

		fb.FailWith(http.StatusBadGateway)

		payload := test.GenericPayload{
			"sessionId": sessionID,
			"signature": anySignature,
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", payload, nil)
		test.RequireHTTPError(t, res, expectedError(http.StatusInternalServerError, types.PublicHTTPErrorTypeBACKENDERROR))

		fb.FailWith(0)
		requireStatus(t, s, sessionID, "pending")
	})
}

func TestPostSignExpiredSession(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		ctx := t.Context()

		created := createSession(t, s, fixtures.SignerAddress, fixtures.MinimalPDF("Contract"))
		sessionID := swag.StringValue(created.SessionID)

		session, err := s.Store.FindByID(ctx, sessionID)
		require.NoError(t, err)
		session.CreatedAt = session.CreatedAt.Add(-2 * s.Config.Signing.PendingTTL)
		require.NoError(t, s.Store.Update(ctx, session))

		payload := test.GenericPayload{
			"sessionId": sessionID,
			"signature": anySignature,
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sign", payload, nil)
		test.RequireHTTPError(t, res, expectedError(http.StatusGone, types.PublicHTTPErrorTypeSESSIONEXPIRED))

		requireStatus(t, s, sessionID, "expired")
	})
}
