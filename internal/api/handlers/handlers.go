package handlers

import (
	"github.com/labstack/echo/v4"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/api/handlers/common"
	"github/chapool/go-docsign/internal/api/handlers/signing"
)

// AttachAllRoutes registers every handler of the service on s.Router.
func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetMetricsRoute(s),
		common.GetReadyRoute(s),
		signing.DeleteSessionRoute(s),
		signing.GetEIP712DomainRoute(s),
		signing.GetSessionRoute(s),
		signing.GetSignedDocumentRoute(s),
		signing.GetUserSessionsRoute(s),
		signing.GetVerificationLinkRoute(s),
		signing.GetVerifySessionRoute(s),
		signing.PostCreateSessionRoute(s),
		signing.PostDeriveWalletRoute(s),
		signing.PostSignRoute(s),
		signing.PostSignWithWalletRoute(s),
	}
}
