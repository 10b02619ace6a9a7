package claims

import (
	"encoding/base64"
	"strings"
)

// TokenTypeJwt is the required header "typ" value, compared case-insensitively
const TokenTypeJwt = "JWT"

// Header is the fixed first segment of every token
type Header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

func (h *Header) valid() bool {
	return strings.EqualFold(h.Type, TokenTypeJwt)
}

// encodeSegment renders a wire segment: URL-safe base64 without padding
func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeSegment accepts both unpadded and padded URL-safe base64; the
// wire format itself never emits padding
func decodeSegment(s string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrMalformedToken
	}
	return b, nil
}
