package claims

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nats-io/nkeys"
)

// Operator is the payload of an operator claim, the root of the trust
// hierarchy
type Operator struct {
	// SigningKeys is a list of other operator keys that are allowed to
	// sign on behalf of this operator
	SigningKeys StringList `json:"signing_keys,omitempty"`

	// AccountServerURL is a partial URL like "https://host.domain.org:<port>/jwt/v1"
	// tools will use the prefix and build queries by appending /accounts/<account_id>
	// or /operator to the path
	AccountServerURL string `json:"account_server_url,omitempty"`

	// OperatorServiceURLs is a list of URLs for the operator's messaging
	// services, used by tooling to connect
	OperatorServiceURLs StringList `json:"operator_service_urls,omitempty"`

	// SystemAccount is the public key of the account hosting system services
	SystemAccount string `json:"system_account,omitempty"`

	// StrictSigningKeyUsage requires all account and user claims under
	// this operator to be signed with dedicated signing keys
	StrictSigningKeyUsage bool `json:"strict_signing_key_usage,omitempty"`

	GenericFields
}

// NewOperator returns an operator payload with defaults
func NewOperator() *Operator {
	return &Operator{}
}

// Validate checks the payload's field shapes
func (o *Operator) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.SigningKeys, keyListOfType(nkeys.PrefixByteOperator)),
		validation.Field(&o.AccountServerURL, is.URL),
		validation.Field(&o.OperatorServiceURLs, validation.By(serviceURLs)),
		validation.Field(&o.SystemAccount, keyOfType(nkeys.PrefixByteAccount)),
	)
}
