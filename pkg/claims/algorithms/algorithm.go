package algorithms

import (
	"errors"

	"github.com/nats-io/nkeys"
)

var (
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// Algorithm defines how a wire generation assembles its signing input
// and verifies signatures over it
type Algorithm interface {
	// Name returns the header "alg" value (e.g., "ed25519-nkey")
	Name() string

	// Version returns the wire generation the algorithm belongs to (1 or 2)
	Version() int

	// SigningInput returns the bytes covered by the signature, built
	// from the already-encoded header and payload segments
	SigningInput(headerSeg, payloadSeg string) []byte

	// Verify checks the signature over the signing input using the
	// issuer's key pair
	Verify(headerSeg, payloadSeg string, signature []byte, key nkeys.KeyPair) error
}
