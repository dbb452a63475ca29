package common

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/util"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Health check
// Returns one line per probe. Any failing probe turns the response into a 521.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(statusNotReady, "Not ready.")
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), s.Config.Management.LivenessTimeout)
		defer cancel()

		lines, errs := ProbeLiveness(ctx, s)

		var b strings.Builder
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}

		if len(errs) > 0 {
			util.LogFromEchoContext(c).Warn().Errs("errs", errs).Msg("Liveness probes failed")
			for _, err := range errs {
				b.WriteString("Error: ")
				b.WriteString(err.Error())
				b.WriteString("\n")
			}

			return c.String(statusNotReady, b.String())
		}

		b.WriteString("Healthy.")

		return c.String(http.StatusOK, b.String())
	}
}
