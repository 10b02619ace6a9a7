package claims

import (
	"errors"

	"github.com/alexadamm/nkey-jwt-go/pkg/claims/algorithms"
)

// Common errors returned by claims operations
var (
	// ErrMalformedToken is returned when the token does not have exactly
	// three dot-separated segments or a segment fails to decode
	ErrMalformedToken = errors.New("malformed token")

	// ErrUnsupportedTokenType is returned when the header "typ" is not "jwt"
	ErrUnsupportedTokenType = errors.New("unsupported token type")

	// ErrUnsupportedAlgorithm is returned when the header "alg" is not a
	// known wire algorithm. It aliases the registry's sentinel so callers
	// need not import the algorithms package.
	ErrUnsupportedAlgorithm = algorithms.ErrUnsupportedAlgorithm

	// ErrUnsupportedVersion is returned when the payload advertises a
	// wire generation newer than this package understands
	ErrUnsupportedVersion = errors.New("unsupported claim version")

	// ErrInvalidSignature is returned when signature verification fails.
	// Like ErrUnsupportedAlgorithm it aliases the algorithms sentinel.
	ErrInvalidSignature = algorithms.ErrInvalidSignature

	// ErrInvalidKey is returned when a key reference cannot be resolved
	// into a key pair at all
	ErrInvalidKey = errors.New("invalid key reference")

	// ErrInvalidKeyType is returned when a key's type discriminant is
	// outside the set expected for its position
	ErrInvalidKeyType = errors.New("invalid key type")

	// ErrUnexpectedSignerType is returned when the signing key's type is
	// not allowed to issue the claim kind
	ErrUnexpectedSignerType = errors.New("unexpected signer type")

	// ErrMissingPrivateKey is returned when signing is attempted with a
	// public-key-only reference
	ErrMissingPrivateKey = errors.New("key reference carries no private material")

	// ErrUnexpectedClaimKind is returned by the kind-specific decode
	// helpers when the token decodes to a different claim kind
	ErrUnexpectedClaimKind = errors.New("unexpected claim kind")
)
