package signing

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/signing/typeddata"
	"github/chapool/go-docsign/internal/types"
	"github/chapool/go-docsign/internal/util"
)

func PostSignRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Signing.POST("/sign", postSignHandler(s))
}

func postSignHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostSignPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		var opts []signing.SignOption
		if body.Message != nil {
			opts = append(opts, signing.WithSignedMessage(typeddata.Message{
				SessionID:     swag.StringValue(body.Message.SessionID),
				WalletAddress: swag.StringValue(body.Message.WalletAddress),
				DocumentHash:  swag.StringValue(body.Message.DocumentHash),
				Timestamp:     swag.Int64Value(body.Message.Timestamp),
			}))
		}

		if body.ChainID != nil {
			opts = append(opts, signing.WithChainID(body.ChainID))
		}

		result, err := s.Signing.SignDocument(ctx, swag.StringValue(body.SessionID), swag.StringValue(body.Signature), opts...)
		if err != nil {
			log.Debug().Err(err).Str("sessionId", swag.StringValue(body.SessionID)).Msg("Failed to sign document")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, toSignResponse(result))
	}
}
