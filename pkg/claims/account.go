package claims

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nats-io/nkeys"
)

// Account is the payload of an account claim
type Account struct {
	// Imports are streams and services pulled in from other accounts
	Imports Imports `json:"imports,omitempty"`

	// Exports are streams and services made available to other accounts
	Exports Exports `json:"exports,omitempty"`

	// Limits are the resource limits the operator granted this account
	Limits OperatorLimits `json:"limits,omitempty"`

	// SigningKeys are account keys allowed to issue users on behalf of
	// this account, optionally scoped to a permission template
	SigningKeys SigningKeys `json:"signing_keys,omitempty"`

	// Revocations invalidate user claims issued before a cutoff time
	Revocations RevocationList `json:"revocations,omitempty"`

	// DefaultPermissions apply to users of this account that carry no
	// permissions of their own
	DefaultPermissions Permissions `json:"default_permissions,omitempty"`

	GenericFields
}

// NewAccount returns an account payload with unlimited default limits
func NewAccount() *Account {
	return &Account{
		Limits: OperatorLimits{
			NatsLimits: NatsLimits{
				Subs:    NoLimit,
				Data:    NoLimit,
				Payload: NoLimit,
			},
			AccountLimits: AccountLimits{
				Imports:         NoLimit,
				Exports:         NoLimit,
				WildcardExports: true,
				Conn:            NoLimit,
				LeafNodeConn:    NoLimit,
			},
		},
	}
}

// Revoke enters a revocation for the user public key effective now
func (a *Account) Revoke(pubKey string) {
	a.RevokeAt(pubKey, time.Now())
}

// RevokeAt enters a revocation for the user public key effective at the
// given cutoff
func (a *Account) RevokeAt(pubKey string, timestamp time.Time) {
	if a.Revocations == nil {
		a.Revocations = RevocationList{}
	}
	a.Revocations.Revoke(pubKey, timestamp)
}

// ClearRevocation removes the revocation for the user public key
func (a *Account) ClearRevocation(pubKey string) {
	a.Revocations.ClearRevocation(pubKey)
}

// IsRevoked checks if the user public key is revoked for claims issued
// at the given time
func (a *Account) IsRevoked(pubKey string, timestamp time.Time) bool {
	return a.Revocations.IsRevoked(pubKey, timestamp)
}

// Validate checks the payload's field shapes
func (a *Account) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Imports, validation.By(validImports)),
		validation.Field(&a.Exports, validation.By(validExports)),
		validation.Field(&a.SigningKeys, validation.By(accountSigningKeys)),
		validation.Field(&a.Revocations, revocationKeys(nkeys.PrefixByteUser)),
	)
}

func validImports(value interface{}) error {
	imports, _ := value.(Imports)
	return imports.Validate()
}

func validExports(value interface{}) error {
	exports, _ := value.(Exports)
	return exports.Validate()
}

func accountSigningKeys(value interface{}) error {
	keys, _ := value.(SigningKeys)
	list := StringList(keys.Keys())
	return keyListOfType(nkeys.PrefixByteAccount).Validate(list)
}
