package httperrors

import (
	"net/http"

	"github/chapool/go-docsign/internal/types"
)

var (
	ErrBadRequestMissingFields = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeMISSINGFIELDS, "Required fields are missing or invalid.")
	ErrNotConfigured           = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeNOTCONFIGURED, "The signing service is not configured.")
	ErrForbiddenDemoDisabled   = NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeDEMODISABLED, "Demo wallet derivation is disabled.")
	ErrTooManyRequests         = NewHTTPError(http.StatusTooManyRequests, types.PublicHTTPErrorTypeRATELIMITED, "Too many requests. Please wait a moment and try again.")
)

func init() {
	ErrBadRequestMissingFields.MessageKey = "MissingFields"
	ErrNotConfigured.MessageKey = "NotConfigured"
	ErrForbiddenDemoDisabled.MessageKey = "DemoDisabled"
	ErrTooManyRequests.MessageKey = "RateLimited"
}

// WithInternal returns a copy of template carrying err as its internal cause.
func WithInternal(template *HTTPError, err error) *HTTPError {
	he := *template
	he.Internal = err

	return &he
}
