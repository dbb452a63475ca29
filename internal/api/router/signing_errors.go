package router

import (
	"errors"
	"net/http"

	"github/chapool/go-docsign/internal/api/httperrors"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/types"
)

type kindMapping struct {
	status     int
	errorType  types.PublicHTTPErrorType
	messageKey string
	title      string
}

// StatusForKind returns the HTTP status and public error type of kind.
func StatusForKind(kind signing.Kind) (int, types.PublicHTTPErrorType) {
	m := mappingForKind(kind)
	return m.status, m.errorType
}

func mappingForKind(kind signing.Kind) kindMapping {
	switch kind {
	case signing.KindInvalidDocument:
		return kindMapping{http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDDOCUMENT, "InvalidDocument", "The document is invalid."}
	case signing.KindInvalidSignature:
		return kindMapping{http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDSIGNATURE, "InvalidSignature", "The signature is invalid or the session can no longer be signed."}
	case signing.KindInvalidIdentifier:
		return kindMapping{http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDIDENTIFIER, "InvalidIdentifier", "The wallet identifier must not be empty."}
	case signing.KindSessionNotFound:
		return kindMapping{http.StatusNotFound, types.PublicHTTPErrorTypeSESSIONNOTFOUND, "SessionNotFound", "The signing session was not found."}
	case signing.KindSessionExpired:
		return kindMapping{http.StatusGone, types.PublicHTTPErrorTypeSESSIONEXPIRED, "SessionExpired", "The signing session has expired."}
	case signing.KindBackend:
		return kindMapping{http.StatusInternalServerError, types.PublicHTTPErrorTypeBACKENDERROR, "BackendError", "The signing service rejected the request."}
	case signing.KindBackendUnavailable:
		return kindMapping{http.StatusServiceUnavailable, types.PublicHTTPErrorTypeBACKENDUNAVAILABLE, "BackendUnavailable", "The signing service is currently unavailable."}
	default:
		return kindMapping{http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Generic", http.StatusText(http.StatusInternalServerError)}
	}
}

// FromSigningError converts errors of the signing workflow. ok is false for
// errors the workflow does not classify.
func FromSigningError(err error) (*httperrors.HTTPError, bool) {
	switch {
	case errors.Is(err, signing.ErrBackendNotConfigured):
		return httperrors.WithInternal(httperrors.ErrNotConfigured, err), true
	case errors.Is(err, signing.ErrDerivationDisabled):
		return httperrors.WithInternal(httperrors.ErrForbiddenDemoDisabled, err), true
	case errors.Is(err, signing.ErrInvalidRequest):
		he := httperrors.WithInternal(httperrors.ErrBadRequestMissingFields, err)
		he.Detail = err.Error()
		return he, true
	}

	signingErr, ok := signing.FromError(err)
	if !ok {
		return nil, false
	}

	m := mappingForKind(signingErr.Kind)

	he := httperrors.NewHTTPErrorWithDetail(m.status, m.errorType, m.title, signingErr.Message)
	he.Internal = err
	he.MessageKey = m.messageKey
	if signingErr.SessionID != "" {
		he.AdditionalData = map[string]interface{}{"sessionId": signingErr.SessionID}
	}
	if signingErr.StatusCode != 0 {
		if he.AdditionalData == nil {
			he.AdditionalData = map[string]interface{}{}
		}
		he.AdditionalData["backendStatus"] = signingErr.StatusCode
	}

	return he, true
}
