package algorithms

import (
	"github.com/nats-io/nkeys"
)

const (
	// NameEd25519 is the legacy generation's header tag. Its signature
	// covers the payload segment alone and the claim type discriminant
	// sits at the envelope top level.
	NameEd25519 = "ed25519"

	// NameEd25519Nkey is the current generation's header tag. Its
	// signature covers header and payload, and the claim type and
	// version discriminants sit inside the kind-specific payload.
	NameEd25519Nkey = "ed25519-nkey"
)

// Ed25519Algorithm implements the Algorithm interface for the two nkey
// wire generations. Both sign raw bytes with an ed25519 key pair; they
// differ only in which segments the signature covers.
type Ed25519Algorithm struct {
	name    string
	version int
}

// NewEd25519Algorithm creates a new algorithm instance for a wire generation
func NewEd25519Algorithm(name string, version int) *Ed25519Algorithm {
	return &Ed25519Algorithm{
		name:    name,
		version: version,
	}
}

func (e *Ed25519Algorithm) Name() string {
	return e.name
}

func (e *Ed25519Algorithm) Version() int {
	return e.version
}

// SigningInput assembles the signed bytes from the encoded segments
// The legacy generation still emits a header segment on the wire, the
// signature just does not cover it
func (e *Ed25519Algorithm) SigningInput(headerSeg, payloadSeg string) []byte {
	if e.version == 1 {
		return []byte(payloadSeg)
	}
	return []byte(headerSeg + "." + payloadSeg)
}

// Verify checks the signature over the signing input with the issuer's key
func (e *Ed25519Algorithm) Verify(headerSeg, payloadSeg string, signature []byte, key nkeys.KeyPair) error {
	if err := key.Verify(e.SigningInput(headerSeg, payloadSeg), signature); err != nil {
		return ErrInvalidSignature
	}
	return nil
}

// Register the two wire generations
func init() {
	Register(NewEd25519Algorithm(NameEd25519, 1))
	Register(NewEd25519Algorithm(NameEd25519Nkey, 2))
}
