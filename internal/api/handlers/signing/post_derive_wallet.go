package signing

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/types"
	"github/chapool/go-docsign/internal/util"
)

func PostDeriveWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Signing.POST("/wallets/derive", postDeriveWalletHandler(s))
}

func postDeriveWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body types.PostDeriveWalletPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		address, err := s.Signing.DeriveWallet(swag.StringValue(body.Identifier))
		if err != nil {
			util.LogFromEchoContext(c).Debug().Err(err).Msg("Failed to derive wallet")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.DeriveWalletResponse{
			Address: swag.String(address),
		})
	}
}
