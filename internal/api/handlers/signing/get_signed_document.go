package signing

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	accept "github.com/timewasted/go-accept-headers"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/pdf"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/signing/typeddata"
	"github/chapool/go-docsign/internal/types"
	"github/chapool/go-docsign/internal/util"
)

func GetSignedDocumentRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Signing.GET("/sessions/:id/document", getSignedDocumentHandler(s))
}

// getSignedDocumentHandler streams the signed PDF as an attachment. Clients
// preferring application/json receive the document base64 encoded instead.
// With ?annotate=true the signature metadata of the local session is stamped
// onto the first page.
func getSignedDocumentHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		sessionID := c.Param("id")
		log := util.LogFromContext(ctx).With().Str("sessionId", sessionID).Logger()

		annotate, _ := strconv.ParseBool(c.QueryParam("annotate"))

		var session *signing.Session
		if annotate {
			var err error
			session, err = s.Signing.GetSigningSession(ctx, sessionID)
			if err != nil {
				return err
			}
		}

		document, err := s.Signing.GetSignedDocument(ctx, sessionID)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to download signed document")
			return err
		}

		if session != nil {
			lang := s.I18n.ParseAcceptLanguage(c.Request().Header.Get(util.HeaderAcceptLanguage))

			document, err = pdf.Annotate(document, pdf.Metadata{
				Signer:       session.SignerAddress,
				SignedAt:     session.UpdatedAt,
				UserID:       session.UserID,
				DocumentHash: session.DocumentHash,
				Signature:    session.Signature,
			}, pdf.LabelsFor(lang))
			if err != nil {
				log.Error().Err(err).Msg("Failed to annotate signed document")
				return err
			}
		}

		if negotiateContentType(c) == echo.MIMEApplicationJSON {
			content := strfmt.Base64(document)

			return util.ValidateAndReturn(c, http.StatusOK, &types.SignedDocumentResponse{
				Content:      &content,
				ContentType:  swag.String(signing.MIMETypePDF),
				DocumentHash: swag.String(typeddata.HashDocument(document)),
				SessionID:    swag.String(sessionID),
			})
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "signed_document_"+sessionID+".pdf"))

		return c.Blob(http.StatusOK, signing.MIMETypePDF, document)
	}
}

func negotiateContentType(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAccept)
	if header == "" {
		return signing.MIMETypePDF
	}

	contentType, err := accept.Negotiate(header, signing.MIMETypePDF, echo.MIMEApplicationJSON)
	if err != nil || contentType == "" {
		return signing.MIMETypePDF
	}

	return contentType
}
