/*
Package vaultkeys backs an nkey with HashiCorp Vault's Transit engine.

A Signer satisfies nkeys.KeyPair, so claims can be issued by keys whose
private material never leaves Vault. The transit key must be of type
ed25519.

Basic usage:
```

	signer, err := vaultkeys.New(ctx, vaultkeys.Config{
	    Address: "http://localhost:8200",
	    Token:   "your-token",
	    KeyName: "acme-account",
	    Prefix:  nkeys.PrefixByteAccount,
	})

	if err != nil {
	    log.Fatal(err)
	}

// Issue a user claim signed inside Vault

	user, _ := nkeys.CreateUser()
	tok, err := claims.EncodeUser("alice", user, nil,
	    claims.WithSigner(signer),
	)

```
Key rotation is supported through the Rotate method; new signatures use
the new version immediately and older versions remain resolvable:
```
err := signer.Rotate(ctx)
pub, err := signer.PublicKeyVersion(ctx, 1)
```
Health checking is also supported:
```
health, err := signer.Health(ctx)
```
Public keys and the current key version are cached with a configurable
TTL, and Vault round-trips retry with exponential backoff per
Config.RetryConfig.
*/
package vaultkeys
