package vaultkeys

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/vault/api"
	"github.com/nats-io/nkeys"
)

// Config holds the configuration for a vault-backed signer
type Config struct {
	// Address is the Vault server address (e.g., "http://localhost:8200")
	Address string

	// Token is the token used to authenticate with Vault
	Token string

	// KeyName is the name of the transit key. The key must be of type
	// ed25519.
	KeyName string

	// Prefix is the nkey type the signer presents (operator, account,
	// user, server or cluster). The zero value is an account key.
	Prefix nkeys.PrefixByte

	// TransitPath is the mount path of the transit engine
	// Defaults to "transit" if not specified
	TransitPath string

	// CacheTTL is the TTL for cached public keys and the key version
	// Defaults to 5 minutes if not specified
	CacheTTL time.Duration

	// RetryConfig configures the retry behavior for Vault operations
	RetryConfig *RetryConfig
}

// RetryConfig configures the retry behavior
type RetryConfig struct {
	MaxAttempts    int
	RetryInterval  time.Duration
	MaxElapsedTime time.Duration
}

// HealthStatus represents the health check response
type HealthStatus struct {
	// Healthy indicates if the signer can reach its key
	Healthy bool

	// Message provides additional health status information
	Message string

	// Details contains detailed health check information
	Details map[string]interface{}
}

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	TransitPath: "transit",
	CacheTTL:    5 * time.Minute,
	RetryConfig: &RetryConfig{
		MaxAttempts:    3,
		RetryInterval:  time.Second,
		MaxElapsedTime: 10 * time.Second,
	},
}

// Signer is an nkeys.KeyPair whose private key lives in Vault's Transit
// engine. Signing round-trips to Vault; the corresponding public key is
// fetched once and cached, and the seed is never available. A Signer can
// be passed anywhere a key pair is accepted, including as the signing
// key of a claim.
//
// Signer is safe for concurrent use.
type Signer struct {
	client transitAPI
	config Config
	prefix nkeys.PrefixByte
	cache  *keyCache

	versionCache struct {
		sync.RWMutex
		version   int64
		fetchedAt time.Time
		ttl       time.Duration
	}
}

// New connects to Vault and wires a signer over the configured transit
// key. The key must exist and be of type ed25519; its current version is
// fetched eagerly so a misconfigured signer fails here rather than at
// first use.
func New(ctx context.Context, config Config) (*Signer, error) {
	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = config.Address

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(config.Token)

	return newSigner(ctx, client.Logical(), config)
}

// newSigner wires a signer over an arbitrary transit API, the seam the
// tests use
func newSigner(ctx context.Context, client transitAPI, config Config) (*Signer, error) {
	if config.KeyName == "" {
		return nil, fmt.Errorf("key name is required")
	}
	switch config.Prefix {
	case nkeys.PrefixByteOperator, nkeys.PrefixByteAccount, nkeys.PrefixByteUser,
		nkeys.PrefixByteServer, nkeys.PrefixByteCluster:
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrefix, config.Prefix)
	}
	if config.TransitPath == "" {
		config.TransitPath = DefaultConfig.TransitPath
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultConfig.CacheTTL
	}
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultConfig.RetryConfig
	}

	s := &Signer{
		client: client,
		config: config,
		prefix: config.Prefix,
	}
	s.versionCache.ttl = config.CacheTTL
	s.cache = newKeyCache(config.CacheTTL, config.CacheTTL/2, s.fetchPublicKey)

	version, err := s.fetchCurrentVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get initial key version: %w", err)
	}
	s.versionCache.version = version
	s.versionCache.fetchedAt = time.Now()

	// Fetching the key up front also proves it is an ed25519 key
	if _, err := s.cache.getKey(ctx, version); err != nil {
		return nil, err
	}

	return s, nil
}

// PublicKey returns the signer's public key encoded with the configured
// nkey prefix. The key is served from cache once fetched; use
// PublicKeyVersion to control the context of a cold fetch.
func (s *Signer) PublicKey() (string, error) {
	ctx := context.Background()
	version, err := s.getCurrentKeyVersion(ctx)
	if err != nil {
		return "", err
	}
	return s.publicKeyForVersion(ctx, version)
}

// PublicKeyVersion returns the public key of a specific transit key
// version, letting verifiers resolve claims signed before a rotation
func (s *Signer) PublicKeyVersion(ctx context.Context, version int64) (string, error) {
	return s.publicKeyForVersion(ctx, version)
}

func (s *Signer) publicKeyForVersion(ctx context.Context, version int64) (string, error) {
	raw, err := s.cache.getKey(ctx, version)
	if err != nil {
		return "", err
	}
	pub, err := nkeys.Encode(s.prefix, raw)
	if err != nil {
		return "", fmt.Errorf("failed to encode public key: %w", err)
	}
	return string(pub), nil
}

// Sign signs input with the current version of the transit key
func (s *Signer) Sign(input []byte) ([]byte, error) {
	return s.SignContext(context.Background(), input)
}

// SignContext signs input with the current version of the transit key,
// honoring the context for the Vault round-trip
func (s *Signer) SignContext(ctx context.Context, input []byte) ([]byte, error) {
	secret, err := s.write(ctx, s.signPath(), map[string]interface{}{
		"input": base64.StdEncoding.EncodeToString(input),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign with transit key: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("no signature returned")
	}

	raw, ok := secret.Data["signature"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid signature format")
	}
	return parseSignature(raw)
}

// parseSignature strips Vault's "vault:v<N>:" envelope and decodes the
// raw ed25519 signature
func parseSignature(s string) ([]byte, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("unexpected signature format %q", s)
	}
	sig, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	return sig, nil
}

// Verify checks sig over input against the current transit key version
func (s *Signer) Verify(input []byte, sig []byte) error {
	ctx := context.Background()
	version, err := s.getCurrentKeyVersion(ctx)
	if err != nil {
		return err
	}
	raw, err := s.cache.getKey(ctx, version)
	if err != nil {
		return err
	}
	if !ed25519.Verify(raw, input, sig) {
		return nkeys.ErrInvalidSignature
	}
	return nil
}

// Seed always fails: the private key never leaves Vault
func (s *Signer) Seed() ([]byte, error) {
	return nil, ErrSeedNotExportable
}

// PrivateKey always fails: the private key never leaves Vault
func (s *Signer) PrivateKey() ([]byte, error) {
	return nil, ErrSeedNotExportable
}

// Wipe drops cached public material. There is no private material in
// process memory to destroy.
func (s *Signer) Wipe() {
	s.cache.clear()
	s.versionCache.Lock()
	s.versionCache.fetchedAt = time.Time{}
	s.versionCache.Unlock()
}

// Seal is not available for signing keys
func (s *Signer) Seal(input []byte, recipient string) ([]byte, error) {
	return nil, nkeys.ErrInvalidNKeyOperation
}

// SealWithRand is not available for signing keys
func (s *Signer) SealWithRand(input []byte, recipient string, rr io.Reader) ([]byte, error) {
	return nil, nkeys.ErrInvalidNKeyOperation
}

// Open is not available for signing keys
func (s *Signer) Open(input []byte, sender string) ([]byte, error) {
	return nil, nkeys.ErrInvalidNKeyOperation
}

// Rotate creates a new version of the transit key. New signatures use
// the new version immediately; older public key versions stay available
// through PublicKeyVersion.
func (s *Signer) Rotate(ctx context.Context) error {
	if _, err := s.write(ctx, s.rotatePath(), nil); err != nil {
		return fmt.Errorf("failed to rotate key: %w", err)
	}

	// Immediately update the cached version after rotation
	s.versionCache.Lock()
	defer s.versionCache.Unlock()

	version, err := s.fetchCurrentVersion(ctx)
	if err != nil {
		return err
	}
	s.versionCache.version = version
	s.versionCache.fetchedAt = time.Now()

	// Clear cached public keys since the current version changed
	s.cache.clear()

	return nil
}

// Health returns the current health status of the signer
func (s *Signer) Health(ctx context.Context) (*HealthStatus, error) {
	version, err := s.fetchCurrentVersion(ctx)
	if err != nil {
		return &HealthStatus{
			Healthy: false,
			Message: "Failed to get key version",
			Details: map[string]interface{}{
				"error": err.Error(),
			},
		}, nil
	}

	return &HealthStatus{
		Healthy: true,
		Message: "Signer is healthy",
		Details: map[string]interface{}{
			"currentKeyVersion": version,
			"keyName":           s.config.KeyName,
		},
	}, nil
}

func (s *Signer) getCurrentKeyVersion(ctx context.Context) (int64, error) {
	s.versionCache.RLock()
	if time.Since(s.versionCache.fetchedAt) < s.versionCache.ttl {
		version := s.versionCache.version
		s.versionCache.RUnlock()
		return version, nil
	}
	s.versionCache.RUnlock()

	// Need to refresh
	s.versionCache.Lock()
	defer s.versionCache.Unlock()

	// Double check after acquiring write lock
	if time.Since(s.versionCache.fetchedAt) < s.versionCache.ttl {
		return s.versionCache.version, nil
	}

	version, err := s.fetchCurrentVersion(ctx)
	if err != nil {
		return 0, err
	}

	s.versionCache.version = version
	s.versionCache.fetchedAt = time.Now()

	return version, nil
}

func (s *Signer) fetchCurrentVersion(ctx context.Context) (int64, error) {
	secret, err := s.read(ctx, s.keysPath())
	if err != nil {
		return 0, fmt.Errorf("failed to read key info: %w", err)
	}
	if secret == nil {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, s.config.KeyName)
	}

	latestVersion, ok := secret.Data["latest_version"].(json.Number)
	if !ok {
		return 0, fmt.Errorf("invalid version format")
	}
	version, err := latestVersion.Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to parse version: %w", err)
	}
	return version, nil
}

// fetchPublicKey reads the raw ed25519 public key of one key version
func (s *Signer) fetchPublicKey(ctx context.Context, version int64) (ed25519.PublicKey, error) {
	secret, err := s.read(ctx, s.keysPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, s.config.KeyName)
	}

	keys, ok := secret.Data["keys"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid key data format")
	}
	keyData, ok := keys[strconv.FormatInt(version, 10)].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("version %d not found", version)
	}
	publicKey, ok := keyData["public_key"].(string)
	if !ok {
		return nil, fmt.Errorf("public key not found")
	}

	// Transit returns ed25519 public keys as bare base64, not PEM
	raw, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return nil, fmt.Errorf("transit key %s is not an ed25519 key: %v", s.config.KeyName, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("transit key %s is not an ed25519 key: got %d key bytes", s.config.KeyName, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

func (s *Signer) read(ctx context.Context, path string) (*api.Secret, error) {
	var secret *api.Secret
	err := s.withRetry(ctx, func() error {
		var err error
		secret, err = s.client.ReadWithContext(ctx, path)
		return err
	})
	return secret, err
}

func (s *Signer) write(ctx context.Context, path string, data map[string]interface{}) (*api.Secret, error) {
	var secret *api.Secret
	err := s.withRetry(ctx, func() error {
		var err error
		secret, err = s.client.WriteWithContext(ctx, path, data)
		return err
	})
	return secret, err
}

func (s *Signer) withRetry(ctx context.Context, op func() error) error {
	rc := s.config.RetryConfig

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = rc.RetryInterval
	policy.MaxElapsedTime = rc.MaxElapsedTime

	var retries uint64
	if rc.MaxAttempts > 1 {
		retries = uint64(rc.MaxAttempts - 1)
	}

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx))
}

func (s *Signer) keysPath() string {
	return fmt.Sprintf("%s/keys/%s", s.config.TransitPath, s.config.KeyName)
}

func (s *Signer) signPath() string {
	return fmt.Sprintf("%s/sign/%s", s.config.TransitPath, s.config.KeyName)
}

func (s *Signer) rotatePath() string {
	return fmt.Sprintf("%s/keys/%s/rotate", s.config.TransitPath, s.config.KeyName)
}
