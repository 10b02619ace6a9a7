package claims

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Equivalent reports whether two tokens carry the same claim content.
// Both tokens are decoded and signature-verified first. The comparison
// is structural: payload JSON is compared with the volatile "jti" and
// "iat" fields removed, and activation tokens embedded in account
// imports are compared by the same rule instead of by byte equality,
// so re-issuing an activation does not make its importing account look
// changed.
func Equivalent(a, b string) (bool, error) {
	na, err := normalizeToken(a)
	if err != nil {
		return false, err
	}
	nb, err := normalizeToken(b)
	if err != nil {
		return false, err
	}
	return na == nb, nil
}

// normalizeToken reduces a token to a canonical JSON rendering of its
// payload: decoded (which verifies the signature), volatile envelope
// fields removed, embedded activation tokens normalized recursively.
// Map keys are sorted by the JSON encoder, so renderings of equal
// content are byte-equal regardless of original key order.
func normalizeToken(tok string) (string, error) {
	c, err := Decode(tok)
	if err != nil {
		return "", err
	}

	parts := strings.Split(tok, ".")
	payloadJSON, err := decodeSegment(parts[1])
	if err != nil {
		return "", err
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return "", fmt.Errorf("%w: payload: %v", ErrMalformedToken, err)
	}

	delete(payload, "jti")
	delete(payload, "iat")

	if c.Kind == AccountClaim {
		normalizeImportTokens(payload)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to render normalized payload: %w", err)
	}
	return string(out), nil
}

// normalizeImportTokens rewrites the embedded activation token of each
// account import into its normalized form. Values that do not decode
// as tokens (opaque strings, URLs) are left alone and compare literally.
func normalizeImportTokens(payload map[string]interface{}) {
	nats, ok := payload["nats"].(map[string]interface{})
	if !ok {
		return
	}
	imports, ok := nats["imports"].([]interface{})
	if !ok {
		return
	}
	for _, entry := range imports {
		im, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		tok, ok := im["token"].(string)
		if !ok || tok == "" {
			continue
		}
		if normalized, err := normalizeToken(tok); err == nil {
			im["token"] = normalized
		}
	}
}
