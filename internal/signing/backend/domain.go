package backend

import (
	"encoding/json"
	"fmt"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github/chapool/go-docsign/internal/signing/typeddata"
)

// domainFields is the backend's domain object. chainId arrives as a JSON number
// or as a decimal/hex string depending on the backend version.
type domainFields struct {
	Name              string                       `json:"name"`
	Version           string                       `json:"version"`
	ChainID           json.RawMessage              `json:"chainId"`
	VerifyingContract string                       `json:"verifyingContract"`
	Types             map[string][]typeddata.Field `json:"types,omitempty"`
}

// domainResponse accepts the bare domain as well as {domain, types}.
type domainResponse struct {
	domainFields

	Domain *domainFields                `json:"domain"`
	Types  map[string][]typeddata.Field `json:"types,omitempty"`
}

func (r *domainResponse) toDomain() (*typeddata.Domain, error) {
	fields := r.domainFields
	if r.Domain != nil {
		fields = *r.Domain
	}

	types := r.Types
	if len(types) == 0 {
		types = fields.Types
	}

	chainID, err := parseChainID(fields.ChainID)
	if err != nil {
		return nil, err
	}

	if fields.Name == "" {
		return nil, errors.New("domain name is missing")
	}

	return &typeddata.Domain{
		Name:              fields.Name,
		Version:           fields.Version,
		ChainID:           chainID,
		VerifyingContract: fields.VerifyingContract,
		Types:             types,
	}, nil
}

func parseChainID(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.Int64()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid chainId %s", string(raw))
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseInt(s[2:], 16, 64)
	}

	return strconv.ParseInt(s, 10, 64)
}

func documentPartHeader(fileName string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf(`form-data; name="document"; filename=%q`, fileName))
	h.Set(echo.HeaderContentType, "application/pdf")

	return h
}
