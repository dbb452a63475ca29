package common

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/util"
)

// statusNotReady is used like Cloudflare's 521 "web server is down".
const statusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// Readiness check
// This endpoint returns 200 when the service is ready to serve traffic.
// The endpoint is public, the body therefore never contains details.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(statusNotReady, "Not ready.")
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), s.Config.Management.ReadinessTimeout)
		defer cancel()

		if errs := ProbeReadiness(ctx, s); len(errs) > 0 {
			util.LogFromEchoContext(c).Warn().Errs("errs", errs).Msg("Readiness probes failed")
			return c.String(statusNotReady, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
