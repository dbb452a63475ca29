package signing

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/types"
	"github/chapool/go-docsign/internal/util"
)

func GetVerifySessionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Signing.GET("/sessions/:id/verify", getVerifySessionHandler(s))
}

// getVerifySessionHandler asks the backend to verify the stored signature. A
// positive answer moves a signed session to verified.
func getVerifySessionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)
		sessionID := c.Param("id")

		session, err := s.Signing.GetSigningSession(ctx, sessionID)
		if err != nil {
			return err
		}

		verified := s.Signing.VerifySignature(ctx, sessionID)
		if verified {
			marked, err := s.Signing.MarkVerified(ctx, sessionID)
			if err != nil {
				log.Warn().Err(err).Str("sessionId", sessionID).Msg("Signature verified but session could not be marked as verified")
			} else {
				session = marked
			}
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.VerifySessionResponse{
			SessionID: swag.String(sessionID),
			Status:    swag.String(session.Status.String()),
			Verified:  swag.Bool(verified),
		})
	}
}
