package claims

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexadamm/nkey-jwt-go/pkg/claims/algorithms"
	"github.com/nats-io/nkeys"
)

// Decode parses a token, verifies its signature against the embedded
// issuer key, and classifies the payload into a kind-specific struct.
// Temporal fields are returned as data, not enforced; expiry policy
// belongs to the caller.
func Decode(tok string) (*Claims, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	headerJSON, err := decodeSegment(parts[0])
	if err != nil {
		return nil, err
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedToken, err)
	}
	if !header.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTokenType, header.Type)
	}

	alg, err := algorithms.Get(header.Algorithm)
	if err != nil {
		return nil, err
	}

	payloadJSON, err := decodeSegment(parts[1])
	if err != nil {
		return nil, err
	}
	var envelope struct {
		ClaimsData
		Nats json.RawMessage `json:"nats,omitempty"`
	}
	if err := json.Unmarshal(payloadJSON, &envelope); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformedToken, err)
	}

	issuer, err := nkeys.FromPublicKey(envelope.Issuer)
	if err != nil {
		return nil, fmt.Errorf("%w: issuer: %v", ErrInvalidKey, err)
	}
	sig, err := decodeSegment(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable signature segment", ErrInvalidSignature)
	}
	if err := alg.Verify(parts[0], parts[1], sig, issuer); err != nil {
		return nil, err
	}

	kind, version, err := classify(envelope.Type, envelope.Nats)
	if err != nil {
		return nil, err
	}

	c := &Claims{
		ClaimsData: envelope.ClaimsData,
		Kind:       kind,
		Version:    version,
		Raw:        tok,
	}
	raw := envelope.Nats
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := c.unmarshalPayload(raw); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformedToken, kind, err)
	}
	return c, nil
}

func (c *Claims) unmarshalPayload(raw json.RawMessage) error {
	switch c.Kind {
	case OperatorClaim:
		c.Operator = &Operator{}
		return json.Unmarshal(raw, c.Operator)
	case AccountClaim:
		c.Account = &Account{}
		return json.Unmarshal(raw, c.Account)
	case UserClaim:
		c.User = &User{}
		return json.Unmarshal(raw, c.User)
	case ActivationClaim:
		c.Activation = &Activation{}
		return json.Unmarshal(raw, c.Activation)
	case AuthorizationResponseClaim:
		c.AuthorizationResponse = &AuthorizationResponse{}
		return json.Unmarshal(raw, c.AuthorizationResponse)
	default:
		c.Generic = map[string]interface{}{}
		return json.Unmarshal(raw, &c.Generic)
	}
}

// DecodeOperator decodes a token and requires an operator claim
func DecodeOperator(tok string) (*Claims, error) {
	return decodeKind(tok, OperatorClaim)
}

// DecodeAccount decodes a token and requires an account claim
func DecodeAccount(tok string) (*Claims, error) {
	return decodeKind(tok, AccountClaim)
}

// DecodeUser decodes a token and requires a user claim
func DecodeUser(tok string) (*Claims, error) {
	return decodeKind(tok, UserClaim)
}

// DecodeActivation decodes a token and requires an activation claim
func DecodeActivation(tok string) (*Claims, error) {
	return decodeKind(tok, ActivationClaim)
}

// DecodeAuthorizationResponse decodes a token and requires an
// authorization response claim
func DecodeAuthorizationResponse(tok string) (*Claims, error) {
	return decodeKind(tok, AuthorizationResponseClaim)
}

func decodeKind(tok string, kind ClaimType) (*Claims, error) {
	c, err := Decode(tok)
	if err != nil {
		return nil, err
	}
	if c.Kind != kind {
		return nil, fmt.Errorf("%w: got %s, wanted %s", ErrUnexpectedClaimKind, c.Kind, kind)
	}
	return c, nil
}
