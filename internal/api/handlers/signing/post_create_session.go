package signing

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/api/httperrors"
	"github/chapool/go-docsign/internal/api/middleware"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/types"
	"github/chapool/go-docsign/internal/util"
)

func PostCreateSessionRoute(s *api.Server) *echo.Route {
	var mw []echo.MiddlewareFunc
	if s.Config.Echo.EnableRateLimitMiddleware {
		mw = append(mw, middleware.RateLimit(s.Config.Signing, s.Metrics))
	}

	return s.Router.APIV1Signing.POST("/sessions", postCreateSessionHandler(s), mw...)
}

func postCreateSessionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		signerAddress := strings.TrimSpace(c.FormValue("signerAddress"))
		userID := strings.TrimSpace(c.FormValue("userID"))

		var missing []*types.HTTPValidationErrorDetail

		fileHeader, err := c.FormFile("document")
		if err != nil {
			log.Debug().Err(err).Msg("Request carries no document")
			missing = append(missing, missingFormField("document"))
		}
		if signerAddress == "" {
			missing = append(missing, missingFormField("signerAddress"))
		}
		if userID == "" {
			missing = append(missing, missingFormField("userID"))
		}

		if len(missing) > 0 {
			return httperrors.NewHTTPValidationError(
				http.StatusBadRequest,
				types.PublicHTTPErrorTypeMISSINGFIELDS,
				swag.StringValue(httperrors.ErrBadRequestMissingFields.Title),
				missing,
			)
		}

		content, err := readDocument(fileHeader, s.Config.Signing.MaxDocumentSize)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to read uploaded document")
			return err
		}

		session, err := s.Signing.CreateSigningSession(ctx, &signing.CreateRequest{
			Document: &signing.Document{
				FileName:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get(echo.HeaderContentType),
				Content:     content,
			},
			SignerAddress: signerAddress,
			UserID:        userID,
			Message:       strings.TrimSpace(c.FormValue("message")),
		})
		if err != nil {
			log.Debug().Err(err).Msg("Failed to create signing session")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.CreateSessionResponse{
			DocumentHash: swag.String(session.DocumentHash),
			SessionID:    swag.String(session.SessionID),
			Status:       swag.String(session.Status.String()),
			Timestamp:    swag.String(session.Timestamp),
		})
	}
}

func missingFormField(key string) *types.HTTPValidationErrorDetail {
	return &types.HTTPValidationErrorDetail{
		Key:   swag.String(key),
		In:    swag.String("formData"),
		Error: swag.String("required"),
	}
}

// readDocument reads at most one byte more than maxSize so oversized uploads
// are still rejected by the signing service.
func readDocument(fileHeader *multipart.FileHeader, maxSize int64) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}

	return io.ReadAll(r)
}
