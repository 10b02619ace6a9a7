package vaultkeys

import "errors"

// Common errors returned by vault-backed signers
var (
	// ErrSeedNotExportable is returned by Seed and PrivateKey: the
	// private key never leaves Vault's Transit engine
	ErrSeedNotExportable = errors.New("vault transit keys are not exportable")

	// ErrKeyNotFound is returned when the configured transit key does
	// not exist
	ErrKeyNotFound = errors.New("transit key not found")

	// ErrInvalidPrefix is returned when the configured key type cannot
	// identify a claim issuer or subject
	ErrInvalidPrefix = errors.New("invalid key prefix")
)
