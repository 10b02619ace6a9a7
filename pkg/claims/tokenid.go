package claims

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
)

// TokenIDGenerator derives the "jti" token id from the envelope
// serialized without an id. Ids are not required to be globally unique,
// only practically unique.
type TokenIDGenerator interface {
	TokenID(envelope []byte) (string, error)
}

// DigestTokenID derives token ids from a SHA-512 content digest of the
// envelope. It is the default generator: identical envelopes produce
// identical ids, making tokens content-addressable.
type DigestTokenID struct{}

func (DigestTokenID) TokenID(envelope []byte) (string, error) {
	h := sha512.Sum512(envelope)
	return base64.StdEncoding.EncodeToString(h[:]), nil
}

// RandomTokenID issues 12 random bytes per token. It serves callers
// that cannot rely on a digest primitive; ids lose content addressing
// but keep practical uniqueness.
type RandomTokenID struct{}

func (RandomTokenID) TokenID([]byte) (string, error) {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b[:]), nil
}
