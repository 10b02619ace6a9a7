package vaultkeys

import (
	"context"

	"github.com/hashicorp/vault/api"
)

// transitAPI is the slice of the Vault API the signer depends on,
// split out for mocking. *api.Logical satisfies it.
type transitAPI interface {
	ReadWithContext(ctx context.Context, path string) (*api.Secret, error)
	WriteWithContext(ctx context.Context, path string, data map[string]interface{}) (*api.Secret, error)
}
