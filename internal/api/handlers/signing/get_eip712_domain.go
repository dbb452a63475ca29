package signing

import (
	"net/http"
	"strconv"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/api/httperrors"
	"github/chapool/go-docsign/internal/types"
	"github/chapool/go-docsign/internal/util"
)

func GetEIP712DomainRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Signing.GET("/eip712-domain", getEIP712DomainHandler(s))
}

func getEIP712DomainHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var chainID *int64
		if raw := c.QueryParam("chainId"); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return httperrors.NewHTTPValidationError(
					http.StatusBadRequest,
					types.PublicHTTPErrorTypeMISSINGFIELDS,
					swag.StringValue(httperrors.ErrBadRequestMissingFields.Title),
					[]*types.HTTPValidationErrorDetail{
						{
							Key:   swag.String("chainId"),
							In:    swag.String("query"),
							Error: swag.String("must be an integer"),
						},
					},
				)
			}
			chainID = &v
		}

		domain, err := s.Signing.GetEIP712Domain(ctx, chainID)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to get EIP-712 domain")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, toDomainResponse(domain))
	}
}
