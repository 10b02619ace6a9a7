package claims

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ClaimType identifies the kind of payload a claim carries
type ClaimType string

const (
	// OperatorClaim tags the payload of an operator claim
	OperatorClaim = ClaimType("operator")
	// AccountClaim tags the payload of an account claim
	AccountClaim = ClaimType("account")
	// UserClaim tags the payload of a user claim
	UserClaim = ClaimType("user")
	// ActivationClaim tags the payload of an activation claim
	ActivationClaim = ClaimType("activation")
	// AuthorizationResponseClaim tags the payload returned by an
	// external authorization service
	AuthorizationResponseClaim = ClaimType("authorization_response")
	// GenericClaim is the fallback kind for payloads carrying an
	// unrecognized type tag
	GenericClaim = ClaimType("generic")
)

// ClaimsData is the shared envelope of every claim. Serialization
// follows declaration order, so the wire keeps a stable field layout.
type ClaimsData struct {
	// Audience identifies the recipients the claim is intended for,
	// "NATS" unless overridden
	Audience string `json:"aud,omitempty"`

	// Expires is the end of the validity window, unix seconds
	Expires int64 `json:"exp,omitempty"`

	// ID is the token's unique identifier, normally a content digest
	ID string `json:"jti,omitempty"`

	// IssuedAt is assigned during encoding, unix seconds
	IssuedAt int64 `json:"iat,omitempty"`

	// Issuer is the public key that signed the claim
	Issuer string `json:"iss,omitempty"`

	// Name is a human label for the claim
	Name string `json:"name,omitempty"`

	// NotBefore is the start of the validity window, unix seconds
	NotBefore int64 `json:"nbf,omitempty"`

	// Subject is the public key the claim is about
	Subject string `json:"sub,omitempty"`

	// Type is the claim kind tag at the envelope level. Only the legacy
	// wire generation carries it here; the current generation tags the
	// kind-specific payload instead.
	Type ClaimType `json:"type,omitempty"`
}

// GenericFields are payload fields shared by every claim kind on the
// current wire generation
type GenericFields struct {
	Tags    TagList   `json:"tags,omitempty"`
	Type    ClaimType `json:"type,omitempty"`
	Version int       `json:"version,omitempty"`
}

// Claims is a decoded claim: the envelope plus exactly one kind-specific
// payload, discriminated by Kind
type Claims struct {
	ClaimsData

	// Kind is the normalized claim kind
	Kind ClaimType

	// Version is the wire generation that carried the claim (1 or 2)
	Version int

	// Raw is the original token string
	Raw string

	Operator              *Operator
	Account               *Account
	User                  *User
	Activation            *Activation
	AuthorizationResponse *AuthorizationResponse

	// Generic holds the payload of unrecognized claim kinds. For the
	// current generation its type tag is at Generic["type"]; the legacy
	// generation keeps the tag in ClaimsData.Type.
	Generic map[string]interface{}
}

// Payload returns the kind-specific payload carried by the claim
func (c *Claims) Payload() interface{} {
	switch c.Kind {
	case OperatorClaim:
		return c.Operator
	case AccountClaim:
		return c.Account
	case UserClaim:
		return c.User
	case ActivationClaim:
		return c.Activation
	case AuthorizationResponseClaim:
		return c.AuthorizationResponse
	default:
		return c.Generic
	}
}

// classify determines the claim kind and wire generation of a decoded
// envelope. The generation is 1 unless the payload carries an explicit
// version; the kind tag is read from the envelope for generation 1 and
// from inside the payload otherwise. Unrecognized tags map to GenericClaim.
func classify(envType ClaimType, payload json.RawMessage) (ClaimType, int, error) {
	var gf GenericFields
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &gf); err != nil {
			return "", 0, ErrMalformedToken
		}
	}

	version := 1
	if gf.Version != 0 {
		version = gf.Version
	}
	if version > 2 {
		return "", 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	tag := gf.Type
	if version == 1 {
		tag = envType
	}

	switch kind := ClaimType(strings.ToLower(string(tag))); kind {
	case OperatorClaim, AccountClaim, UserClaim, ActivationClaim, AuthorizationResponseClaim:
		return kind, version, nil
	default:
		return GenericClaim, version, nil
	}
}
