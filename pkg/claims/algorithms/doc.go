/*
Package algorithms implements the wire signing algorithms used by claim
tokens across their two generations.

The package provides a registry of supported algorithms and their
implementations. Each algorithm determines which token segments the
signature covers and which wire generation it belongs to.

Supported Algorithms:
- ed25519-nkey (current generation)
  - signature covers "header.payload"
  - claim type and version are carried inside the kind-specific payload

- ed25519 (legacy generation)
  - signature covers the payload segment alone
  - claim type is carried at the envelope top level, no version field

Both algorithms sign and verify with nkey (prefixed ed25519) key pairs;
the signature primitive itself is supplied by the key pair, never
reimplemented here.
*/
package algorithms
