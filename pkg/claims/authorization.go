package claims

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nats-io/nkeys"
)

// AuthorizationResponse is the payload an external authorization
// service returns for a connecting user: either an issued user token or
// an error message, never both
type AuthorizationResponse struct {
	// Jwt is the user token issued for the connection
	Jwt string `json:"jwt,omitempty"`

	// Error explains why the connection was denied
	Error string `json:"error,omitempty"`

	// IssuerAccount is the public key of the account operating the
	// authorization service when the envelope issuer is one of its
	// signing keys
	IssuerAccount string `json:"issuer_account,omitempty"`

	GenericFields
}

// NewAuthorizationResponse returns an authorization response payload
// with defaults
func NewAuthorizationResponse() *AuthorizationResponse {
	return &AuthorizationResponse{}
}

// Validate checks the payload's field shapes
func (r *AuthorizationResponse) Validate() error {
	if r.Jwt != "" && r.Error != "" {
		return errors.New("only one of jwt or error can be set")
	}
	if r.Jwt == "" && r.Error == "" {
		return errors.New("one of jwt or error must be set")
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.IssuerAccount, keyOfType(nkeys.PrefixByteAccount)),
	)
}
