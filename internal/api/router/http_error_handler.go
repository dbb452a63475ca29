package router

import (
	"errors"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api/httperrors"
	"github/chapool/go-docsign/internal/i18n"
	"github/chapool/go-docsign/internal/types"
	"github/chapool/go-docsign/internal/util"
)

type HTTPErrorHandlerConfig struct {
	HideInternalServerErrorDetails bool
	// I18n localises titles of errors carrying a MessageKey, may be nil.
	I18n *i18n.Service
	// MessageData is available to every localised title.
	MessageData map[string]interface{}
}

// HTTPErrorHandlerWithConfig renders every error returned by a handler as
// PublicHTTPError JSON.
func HTTPErrorHandlerWithConfig(config HTTPErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		log := util.LogFromEchoContext(c)

		var validationErr *httperrors.HTTPValidationError
		if errors.As(err, &validationErr) {
			log.Debug().Err(err).Msg("Request validation failed")
			respond(c, int(swag.Int64Value(validationErr.Code)), validationErr, err)
			return
		}

		he := toHTTPError(err)
		code := int(swag.Int64Value(he.Code))

		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", code).Msg("Request failed")

			if !config.HideInternalServerErrorDetails && he.Detail == "" && he.Internal != nil {
				he.Detail = he.Internal.Error()
			}
		} else {
			log.Debug().Err(err).Int("status", code).Msg("Request rejected")
		}

		if config.I18n != nil && he.MessageKey != "" {
			data := i18n.Data{}
			for k, v := range config.MessageData {
				data[k] = v
			}
			for k, v := range he.MessageData {
				data[k] = v
			}

			lang := config.I18n.ParseAcceptLanguage(c.Request().Header.Get(util.HeaderAcceptLanguage))
			he.Title = swag.String(config.I18n.Translate(he.MessageKey, lang, data))
		}

		respond(c, code, he, err)
	}
}

func respond(c echo.Context, code int, body interface{}, originalErr error) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}

	if err != nil {
		util.LogFromEchoContext(c).Error().Err(err).AnErr("originalError", originalErr).Msg("Failed to handle HTTP error")
	}
}

// toHTTPError always returns a fresh copy.
func toHTTPError(err error) *httperrors.HTTPError {
	var (
		httpErr *httperrors.HTTPError
		echoErr *echo.HTTPError
	)

	if errors.As(err, &httpErr) {
		he := *httpErr
		return &he
	}

	if he, ok := FromSigningError(err); ok {
		return he
	}

	if errors.As(err, &echoErr) {
		he := httperrors.NewFromEcho(echoErr)
		he.Internal = err
		return he
	}

	he := httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError))
	he.Internal = err
	he.MessageKey = "Generic"

	return he
}
