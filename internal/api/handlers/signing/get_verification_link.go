package signing

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/types"
	"github/chapool/go-docsign/internal/util"
)

func GetVerificationLinkRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Signing.GET("/sessions/:id/verification-link", getVerificationLinkHandler(s))
}

func getVerificationLinkHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		sessionID := c.Param("id")

		link, err := s.Signing.GetVerificationLink(ctx, sessionID)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Str("sessionId", sessionID).Msg("Failed to get verification link")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.VerificationLinkResponse{
			SessionID:        swag.String(sessionID),
			VerificationLink: swag.String(link),
		})
	}
}
