package signing

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/util"
)

func GetUserSessionsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Signing.GET("/users/:userID/sessions", getUserSessionsHandler(s))
}

func getUserSessionsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessions, err := s.Signing.GetUserSessions(c.Request().Context(), c.Param("userID"))
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, toSessionList(sessions))
	}
}
