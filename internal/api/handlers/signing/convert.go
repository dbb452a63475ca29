package signing

import (
	"sort"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/signing/typeddata"
	"github/chapool/go-docsign/internal/types"
)

func toSessionType(session *signing.Session) *types.Session {
	createdAt := strfmt.DateTime(session.CreatedAt)
	updatedAt := strfmt.DateTime(session.UpdatedAt)

	return &types.Session{
		CreatedAt:        &createdAt,
		DocumentHash:     swag.String(session.DocumentHash),
		DocumentURL:      session.DocumentURL,
		Message:          session.Message,
		SessionID:        swag.String(session.SessionID),
		Signature:        session.Signature,
		SignerAddress:    swag.String(session.SignerAddress),
		Status:           swag.String(session.Status.String()),
		Timestamp:        session.Timestamp,
		UpdatedAt:        &updatedAt,
		UserID:           swag.String(session.UserID),
		VerificationLink: session.VerificationLink,
	}
}

func toSessionList(sessions []*signing.Session) types.SessionList {
	res := make(types.SessionList, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, toSessionType(session))
	}

	return res
}

func toSignResponse(result *signing.SignResult) *types.SignResponse {
	return &types.SignResponse{
		DocumentHash:      swag.String(result.DocumentHash),
		SessionID:         swag.String(result.SessionID),
		Signature:         swag.String(result.Signature),
		SignedDocumentURL: result.DocumentURL,
		Status:            swag.String(result.Status.String()),
		VerificationLink:  result.VerificationLink,
	}
}

// toDomainResponse publishes the domain together with every type a wallet
// needs to sign the document message, the primary type included.
func toDomainResponse(domain *typeddata.Domain) *types.EIP712DomainResponse {
	td := typeddata.Build(*domain, typeddata.Message{})

	names := make([]string, 0, len(td.Types))
	for name := range td.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	typeDefs := make(map[string][]*types.TypedDataField, len(names))
	for _, name := range names {
		fields := make([]*types.TypedDataField, 0, len(td.Types[name]))
		for _, f := range td.Types[name] {
			fields = append(fields, &types.TypedDataField{Name: f.Name, Type: f.Type})
		}
		typeDefs[name] = fields
	}

	return &types.EIP712DomainResponse{
		Domain: &types.EIP712Domain{
			ChainID:           swag.Int64(domain.ChainID),
			Name:              swag.String(domain.Name),
			VerifyingContract: domain.VerifyingContract,
			Version:           swag.String(domain.Version),
		},
		Types: typeDefs,
	}
}
