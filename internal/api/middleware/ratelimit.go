package middleware

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github/chapool/go-docsign/internal/api/httperrors"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/util"
	"golang.org/x/time/rate"
)

const rateLimitExpiresIn = 3 * time.Minute

// RateLimitObserver is told about every rejected request.
type RateLimitObserver interface {
	ObserveRateLimited(path string)
}

// RateLimit limits requests per user to cfg.RateLimitPerMinute with bursts of
// cfg.RateLimitBurst. The user is taken from the userID form field and falls
// back to the client IP.
func RateLimit(cfg config.Signing, observer RateLimitObserver) echo.MiddlewareFunc {
	limit := rate.Limit(cfg.RateLimitPerMinute / 60)

	retryAfter := 1
	if limit > 0 {
		retryAfter = int(math.Max(1, math.Ceil(1/float64(limit))))
	}

	return echoMiddleware.RateLimiterWithConfig(echoMiddleware.RateLimiterConfig{
		Store: echoMiddleware.NewRateLimiterMemoryStoreWithConfig(echoMiddleware.RateLimiterMemoryStoreConfig{
			Rate:      limit,
			Burst:     cfg.RateLimitBurst,
			ExpiresIn: rateLimitExpiresIn,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if userID := strings.TrimSpace(c.FormValue("userID")); userID != "" {
				return "user:" + userID, nil
			}

			return "ip:" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			util.LogFromEchoContext(c).Warn().Str("identifier", identifier).Msg("Rate limit exceeded")

			if observer != nil {
				observer.ObserveRateLimited(c.Path())
			}

			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			return httperrors.ErrTooManyRequests
		},
	})
}
