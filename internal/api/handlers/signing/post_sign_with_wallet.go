package signing

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/types"
	"github/chapool/go-docsign/internal/util"
)

func PostSignWithWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Signing.POST("/sessions/:id/sign-with-wallet", postSignWithWalletHandler(s))
}

// postSignWithWalletHandler signs the session with the demo wallet derived
// from the identifier. Only available while demo derivation is enabled.
func postSignWithWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		sessionID := c.Param("id")

		var body types.PostSignWithWalletPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		result, err := s.Signing.SignWithDerivedWallet(ctx, sessionID, swag.StringValue(body.Identifier), body.ChainID)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Str("sessionId", sessionID).Msg("Failed to sign with derived wallet")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, toSignResponse(result))
	}
}
