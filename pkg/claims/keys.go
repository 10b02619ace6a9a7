package claims

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nkeys"
)

// KeyRef is a reference to an nkey. Three shapes are accepted: a live
// nkeys.KeyPair, a string holding either a seed or a public key, and a
// []byte holding seed text.
type KeyRef interface{}

// KeyTypeError reports a key whose type discriminant is outside the
// expected set for its position. It matches ErrInvalidKeyType, or
// ErrUnexpectedSignerType when the key was offered as a signer.
type KeyTypeError struct {
	// Actual is the type letter of the offered key
	Actual string
	// Wanted are the allowed type letters
	Wanted []string
	// Signer marks that the key was offered in signer position
	Signer bool
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("unexpected type %s - wanted %s", e.Actual, strings.Join(e.Wanted, ","))
}

func (e *KeyTypeError) Is(target error) bool {
	if e.Signer {
		return target == ErrUnexpectedSignerType
	}
	return target == ErrInvalidKeyType
}

// prefixLetter maps a key type to the first character of its public keys
func prefixLetter(p nkeys.PrefixByte) string {
	switch p {
	case nkeys.PrefixByteOperator:
		return "O"
	case nkeys.PrefixByteAccount:
		return "A"
	case nkeys.PrefixByteUser:
		return "U"
	case nkeys.PrefixByteServer:
		return "N"
	case nkeys.PrefixByteCluster:
		return "C"
	case nkeys.PrefixByteCurve:
		return "X"
	case nkeys.PrefixByteSeed:
		return "S"
	}
	return "?"
}

func prefixLetters(prefixes []nkeys.PrefixByte) []string {
	letters := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		letters = append(letters, prefixLetter(p))
	}
	return letters
}

// resolveKey normalizes a key reference into a key pair and checks its
// type discriminant against the wanted set (empty set means any type).
// With requirePrivate the reference must be able to sign: references
// built from a bare public key fail with ErrMissingPrivateKey, while
// key pairs whose seed is merely not exportable (remote signers) pass.
func resolveKey(ref KeyRef, wanted []nkeys.PrefixByte, requirePrivate bool) (nkeys.KeyPair, error) {
	var kp nkeys.KeyPair
	var err error

	switch v := ref.(type) {
	case nkeys.KeyPair:
		kp = v
	case string:
		kp, err = keyPairFromString(v)
	case []byte:
		kp, err = keyPairFromString(string(v))
	case nil:
		return nil, ErrInvalidKey
	default:
		return nil, fmt.Errorf("%w: unsupported reference type %T", ErrInvalidKey, ref)
	}
	if err != nil {
		return nil, err
	}

	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}
	if len(wanted) > 0 && !prefixAllowed(pub, wanted) {
		return nil, &KeyTypeError{Actual: pub[:1], Wanted: prefixLetters(wanted)}
	}

	if requirePrivate {
		if _, err := kp.Seed(); errors.Is(err, nkeys.ErrPublicKeyOnly) {
			return nil, ErrMissingPrivateKey
		}
	}

	return kp, nil
}

// resolveSigner resolves a key offered in signer position: private
// material is required and type violations match ErrUnexpectedSignerType
func resolveSigner(ref KeyRef, wanted []nkeys.PrefixByte) (nkeys.KeyPair, error) {
	kp, err := resolveKey(ref, wanted, true)
	var kerr *KeyTypeError
	if errors.As(err, &kerr) {
		kerr.Signer = true
	}
	return kp, err
}

// keyPairFromString builds a key pair from seed or public key text.
// Seeds are recognized by their reserved leading character.
func keyPairFromString(s string) (nkeys.KeyPair, error) {
	if s == "" {
		return nil, ErrInvalidKey
	}
	if s[0] == 'S' {
		kp, err := nkeys.FromSeed([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return kp, nil
	}
	kp, err := nkeys.FromPublicKey(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return kp, nil
}

func prefixAllowed(pub string, wanted []nkeys.PrefixByte) bool {
	letter := pub[:1]
	for _, p := range wanted {
		if letter == prefixLetter(p) {
			return true
		}
	}
	return false
}
