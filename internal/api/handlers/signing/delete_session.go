package signing

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/util"
)

func DeleteSessionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Signing.DELETE("/sessions/:id", deleteSessionHandler(s))
}

// deleteSessionHandler forgets the session locally. The signing backend keeps
// its copy.
func deleteSessionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := s.Signing.CancelSession(ctx, c.Param("id")); err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Str("sessionId", c.Param("id")).Msg("Failed to cancel session")
			return err
		}

		return c.NoContent(http.StatusNoContent)
	}
}
