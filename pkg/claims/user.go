package claims

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nats-io/nkeys"
)

// UserPermissionLimits are the permissions and limits of a user,
// separate from User so signing key scopes can carry them as templates
type UserPermissionLimits struct {
	Permissions
	Limits

	// BearerToken lets the user connect with the token alone, no
	// signature challenge
	BearerToken bool `json:"bearer_token,omitempty"`

	// AllowedConnectionTypes restricts how the user may connect
	// (STANDARD, WEBSOCKET, LEAFNODE, MQTT)
	AllowedConnectionTypes StringList `json:"allowed_connection_types,omitempty"`
}

// User is the payload of a user claim
type User struct {
	UserPermissionLimits

	// IssuerAccount is the public key of the account that issued this
	// user when the envelope issuer is one of its signing keys
	IssuerAccount string `json:"issuer_account,omitempty"`

	GenericFields
}

// NewUser returns a user payload with unlimited message-level limits
func NewUser() *User {
	u := &User{}
	u.NatsLimits = NatsLimits{
		Subs:    NoLimit,
		Data:    NoLimit,
		Payload: NoLimit,
	}
	return u
}

// HasEmptyPermissions reports whether the user carries no permissions
// of its own, deferring to the account's defaults or a signing key scope
func (u *User) HasEmptyPermissions() bool {
	return len(u.Pub.Allow) == 0 && len(u.Pub.Deny) == 0 &&
		len(u.Sub.Allow) == 0 && len(u.Sub.Deny) == 0 &&
		u.Resp == nil
}

// Validate checks the payload's field shapes
func (u *User) Validate() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.IssuerAccount, keyOfType(nkeys.PrefixByteAccount)),
		validation.Field(&u.Src, validation.By(cidrBlocks)),
		validation.Field(&u.Times, validation.By(timeRanges)),
		validation.Field(&u.Resp, validation.By(responseQuota)),
	)
}

func responseQuota(value interface{}) error {
	resp, _ := value.(*ResponsePermission)
	if resp == nil {
		return nil
	}
	if resp.MaxMsgs < 1 {
		return errors.New("response quota must allow at least one message")
	}
	return nil
}
