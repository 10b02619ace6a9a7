/*
Package claims encodes and decodes the signed configuration claims that
describe a NATS-style trust hierarchy: operators at the root, accounts
under them, users under accounts, plus activation grants and
authorization responses.

Claims travel as three dot-separated base64url segments (header,
payload, signature) signed with the issuer's ed25519 nkey. Identity is
key-based: subjects and issuers are nkey public keys whose first letter
states their type (O operator, A account, U user).

Basic usage:
```

	operator, _ := nkeys.CreateOperator()
	account, _ := nkeys.CreateAccount()
	user, _ := nkeys.CreateUser()

	// Operators issue account claims
	accountJWT, err := claims.EncodeAccount("ACME", account, nil,
	    claims.WithSigner(operator),
	)
	if err != nil {
	    log.Fatal(err)
	}

	// Accounts issue user claims
	userJWT, err := claims.EncodeUser("alice", user, nil,
	    claims.WithSigner(account),
	)

// Decode verifies the signature against the embedded issuer key

	c, err := claims.DecodeUser(userJWT)
	fmt.Println(c.Subject, c.User.BearerToken)

```
Each claim kind enforces a signer policy: operators are self-signed,
accounts are signed by operators (or themselves), users by accounts.
Signing with the wrong key type fails before anything is emitted:
```
_, err := claims.EncodeUser("alice", user, nil) // user keys cannot issue
```
Custom payloads ride in generic claims:
```

	tok, err := claims.EncodeGeneric("batch", account, "batch_config",
	    map[string]interface{}{"workers": 4},
	)

```
Decoded temporal fields (exp, nbf) are returned as data; enforcing them
is the caller's policy. Two tokens can be compared for semantic
equivalence, ignoring the volatile token id and issue timestamp:
```
same, err := claims.Equivalent(tokA, tokB)
```
*/
package claims
