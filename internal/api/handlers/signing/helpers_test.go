package signing_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/require"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/api/httperrors"
	"github/chapool/go-docsign/internal/data/fixtures"
	"github/chapool/go-docsign/internal/test"
	"github/chapool/go-docsign/internal/types"
)

const testIdentifier = "alice@example.com"

// anySignature is well formed but was never produced by any key.
var anySignature = "0x" + strings.Repeat("11", 64) + "1b"

func createSession(t *testing.T, s *api.Server, signerAddress string, document []byte) *types.CreateSessionResponse {
	t.Helper()

	body, headers := test.MultipartPayload(t, map[string]string{
		"signerAddress": signerAddress,
		"userID":        fixtures.UserID,
		"message":       "Please sign the lease",
	}, test.MultipartFile{
		FieldName:   "document",
		FileName:    "lease.pdf",
		ContentType: "application/pdf",
		Content:     document,
	})

	res := test.PerformRequestWithRawBody(t, s, "POST", "/api/v1/signing/sessions", body, headers, nil)
	require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

	var response types.CreateSessionResponse
	test.ParseResponseAndValidate(t, res, &response)

	return &response
}

func derivedAddress(t *testing.T, s *api.Server) string {
	t.Helper()

	identity, err := s.Wallet.Derive(testIdentifier)
	require.NoError(t, err)
	defer identity.Zero()

	return identity.Address
}

func signWithWallet(t *testing.T, s *api.Server, sessionID string) *types.SignResponse {
	t.Helper()

	payload := test.GenericPayload{"identifier": testIdentifier}

	res := test.PerformRequest(t, s, "POST", "/api/v1/signing/sessions/"+sessionID+"/sign-with-wallet", payload, nil)
	require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

	var response types.SignResponse
	test.ParseResponseAndValidate(t, res, &response)

	return &response
}

func expectedError(code int, errorType types.PublicHTTPErrorType) *httperrors.HTTPError {
	return httperrors.NewHTTPError(code, errorType, "")
}

func requireStatus(t *testing.T, s *api.Server, sessionID string, status string) {
	t.Helper()

	res := test.PerformRequest(t, s, "GET", "/api/v1/signing/sessions/"+sessionID, nil, nil)
	require.Equal(t, http.StatusOK, res.Result().StatusCode)

	var response types.Session
	test.ParseResponseAndValidate(t, res, &response)
	require.Equal(t, status, swag.StringValue(response.Status))
}
