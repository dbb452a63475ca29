package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/util"
)

// RequestLogger attaches a request scoped logger carrying the request id to the
// request context and logs every request once it completed. 4xx responses are
// logged at warn and 5xx responses at error level, everything else at
// config.RequestLevel.
func RequestLogger(cfg config.LoggerServer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			l := log.With().Str("id", id).Logger()
			ctx := context.WithValue(req.Context(), util.CTXKeyRequestID, id)
			c.SetRequest(req.WithContext(l.WithContext(ctx)))

			if err := next(c); err != nil {
				c.Error(err)
			}

			level := cfg.RequestLevel
			switch {
			case res.Status >= http.StatusInternalServerError:
				level = zerolog.ErrorLevel
			case res.Status >= http.StatusBadRequest:
				level = zerolog.WarnLevel
			}

			e := l.WithLevel(level).
				Str("method", req.Method).
				Str("path", c.Path()).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("duration", time.Since(start))

			if cfg.LogRequestHeader {
				e = e.Interface("req_header", req.Header)
			}
			if cfg.LogRequestQuery {
				e = e.Interface("req_query", req.URL.Query())
			}
			if cfg.LogResponseHeader {
				e = e.Interface("res_header", res.Header())
			}

			e.Msg("http_request")

			return nil
		}
	}
}

// BodyDump logs request and response bodies as enabled by cfg. Multipart
// uploads are never logged.
func BodyDump(cfg config.LoggerServer) echo.MiddlewareFunc {
	return echoMiddleware.BodyDumpWithConfig(echoMiddleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return (!cfg.LogRequestBody && !cfg.LogResponseBody) || isMultipart(c)
		},
		Handler: func(c echo.Context, reqBody []byte, resBody []byte) {
			e := util.LogFromEchoContext(c).WithLevel(cfg.RequestLevel)
			if cfg.LogRequestBody {
				e = e.Bytes("req_body", reqBody)
			}
			if cfg.LogResponseBody && !isBinary(c) {
				e = e.Bytes("res_body", resBody)
			}
			e.Msg("http_body")
		},
	})
}

// RecoverLogErrorFunc logs recovered panics through the request logger.
func RecoverLogErrorFunc(c echo.Context, err error, stack []byte) error {
	util.LogFromEchoContext(c).Error().Err(err).Bytes("stack", stack).Msg("Recovered from panic")
	return err
}

// NoCache marks responses as uncacheable.
func NoCache() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderCacheControl, "no-store, no-cache, must-revalidate")
			c.Response().Header().Set("Pragma", "no-cache")
			return next(c)
		}
	}
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func isBinary(c echo.Context) bool {
	return c.Response().Header().Get(echo.HeaderContentType) == "application/pdf"
}
