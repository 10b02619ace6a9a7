package claims

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/alexadamm/nkey-jwt-go/pkg/claims/algorithms"
	"github.com/nats-io/nkeys"
)

// DefaultAudience is set on encoded claims unless overridden
const DefaultAudience = "NATS"

// Subject and signer type policies per claim kind
var (
	operatorKeys          = []nkeys.PrefixByte{nkeys.PrefixByteOperator}
	accountKeys           = []nkeys.PrefixByte{nkeys.PrefixByteAccount}
	userKeys              = []nkeys.PrefixByte{nkeys.PrefixByteUser}
	operatorOrAccountKeys = []nkeys.PrefixByte{nkeys.PrefixByteOperator, nkeys.PrefixByteAccount}
)

// EncodeOption adjusts a single encode call
type EncodeOption func(*encodeOptions) error

type encodeOptions struct {
	algorithm     string
	audience      string
	expires       int64
	notBefore     int64
	signer        KeyRef
	issuerAccount KeyRef
	scoped        bool
	idGenerator   TokenIDGenerator
}

func newEncodeOptions(opts []EncodeOption) (*encodeOptions, error) {
	o := &encodeOptions{
		algorithm:   algorithms.NameEd25519Nkey,
		audience:    DefaultAudience,
		idGenerator: DigestTokenID{},
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithAlgorithm selects the wire algorithm by its header tag. The
// default is the current generation, algorithms.NameEd25519Nkey; the
// legacy generation algorithms.NameEd25519 may be requested explicitly.
func WithAlgorithm(name string) EncodeOption {
	return func(o *encodeOptions) error {
		if _, err := algorithms.Get(name); err != nil {
			return err
		}
		o.algorithm = name
		return nil
	}
}

// WithAudience overrides the default "NATS" audience
func WithAudience(aud string) EncodeOption {
	return func(o *encodeOptions) error {
		o.audience = aud
		return nil
	}
}

// WithExpires sets the end of the claim's validity window
func WithExpires(t time.Time) EncodeOption {
	return func(o *encodeOptions) error {
		o.expires = t.Unix()
		return nil
	}
}

// WithNotBefore sets the start of the claim's validity window
func WithNotBefore(t time.Time) EncodeOption {
	return func(o *encodeOptions) error {
		o.notBefore = t.Unix()
		return nil
	}
}

// WithSigner signs the claim with a key other than the subject's. The
// key must satisfy the claim kind's signer policy and carry private
// material; the subject then only needs its public key.
func WithSigner(ref KeyRef) EncodeOption {
	return func(o *encodeOptions) error {
		o.signer = ref
		return nil
	}
}

// WithIssuerAccount records the owning account's public key in payloads
// that carry an issuer_account back-reference (user, activation,
// authorization response), letting verifiers recover the account when
// the claim is issued by one of its signing keys
func WithIssuerAccount(ref KeyRef) EncodeOption {
	return func(o *encodeOptions) error {
		o.issuerAccount = ref
		return nil
	}
}

// WithScopedUser marks a user claim as governed by its signing key's
// scope template: default limit injection is suppressed and unset
// fields stay off the wire
func WithScopedUser() EncodeOption {
	return func(o *encodeOptions) error {
		o.scoped = true
		return nil
	}
}

// WithTokenIDGenerator selects how the "jti" token id is derived. The
// default is DigestTokenID.
func WithTokenIDGenerator(g TokenIDGenerator) EncodeOption {
	return func(o *encodeOptions) error {
		o.idGenerator = g
		return nil
	}
}

// issuerAccountKey resolves the WithIssuerAccount reference to an
// account public key, or "" when the option was not given
func (o *encodeOptions) issuerAccountKey() (string, error) {
	if o.issuerAccount == nil {
		return "", nil
	}
	kp, err := resolveKey(o.issuerAccount, accountKeys, false)
	if err != nil {
		return "", err
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return "", fmt.Errorf("failed to get issuer account public key: %w", err)
	}
	return pub, nil
}

func (o *encodeOptions) rejectIssuerAccount(kind ClaimType) error {
	if o.issuerAccount != nil {
		return fmt.Errorf("issuer_account is not valid for %s claims", kind)
	}
	return nil
}

func (o *encodeOptions) rejectScoped(kind ClaimType) error {
	if o.scoped {
		return fmt.Errorf("scoped users are not valid for %s claims", kind)
	}
	return nil
}

// EncodeOperator signs an operator claim. The subject must be an
// operator key; so must the signer (the subject itself unless
// WithSigner provides a delegated operator signing key). A nil payload
// encodes builder defaults.
func EncodeOperator(name string, subject KeyRef, payload *Operator, opts ...EncodeOption) (string, error) {
	o, err := newEncodeOptions(opts)
	if err != nil {
		return "", err
	}
	if err := o.rejectIssuerAccount(OperatorClaim); err != nil {
		return "", err
	}
	if err := o.rejectScoped(OperatorClaim); err != nil {
		return "", err
	}

	p := NewOperator()
	if payload != nil {
		cp := *payload
		p = &cp
	}

	return o.seal(OperatorClaim, name, subject, operatorKeys, operatorKeys, p, &p.GenericFields)
}

// EncodeAccount signs an account claim. The subject must be an account
// key; the signer must be an operator key, or an account key when the
// account self-signs or delegates to a signing key. A nil payload
// encodes builder defaults (unlimited limits).
func EncodeAccount(name string, subject KeyRef, payload *Account, opts ...EncodeOption) (string, error) {
	o, err := newEncodeOptions(opts)
	if err != nil {
		return "", err
	}
	if err := o.rejectIssuerAccount(AccountClaim); err != nil {
		return "", err
	}
	if err := o.rejectScoped(AccountClaim); err != nil {
		return "", err
	}

	p := NewAccount()
	if payload != nil {
		cp := *payload
		p = &cp
	}

	return o.seal(AccountClaim, name, subject, accountKeys, operatorOrAccountKeys, p, &p.GenericFields)
}

// EncodeUser signs a user claim. The subject must be a user key and the
// signer an account key, so WithSigner is effectively required: a user
// key cannot issue itself. Zero-valued message limits default to
// unlimited unless WithScopedUser defers them to a signing key scope.
func EncodeUser(name string, subject KeyRef, payload *User, opts ...EncodeOption) (string, error) {
	o, err := newEncodeOptions(opts)
	if err != nil {
		return "", err
	}

	p := &User{}
	if payload != nil {
		cp := *payload
		p = &cp
	}
	if !o.scoped {
		if p.Subs == 0 {
			p.Subs = NoLimit
		}
		if p.Data == 0 {
			p.Data = NoLimit
		}
		if p.Payload == 0 {
			p.Payload = NoLimit
		}
	}
	issuer, err := o.issuerAccountKey()
	if err != nil {
		return "", err
	}
	if issuer != "" {
		p.IssuerAccount = issuer
	}

	return o.seal(UserClaim, name, subject, userKeys, accountKeys, p, &p.GenericFields)
}

// EncodeActivation signs an activation claim granting the subject
// account access to an exported subject. Subject and signer types are
// unrestricted, though conventionally both are account keys.
func EncodeActivation(name string, subject KeyRef, payload *Activation, opts ...EncodeOption) (string, error) {
	o, err := newEncodeOptions(opts)
	if err != nil {
		return "", err
	}
	if err := o.rejectScoped(ActivationClaim); err != nil {
		return "", err
	}

	p := NewActivation()
	if payload != nil {
		cp := *payload
		p = &cp
	}
	issuer, err := o.issuerAccountKey()
	if err != nil {
		return "", err
	}
	if issuer != "" {
		p.IssuerAccount = issuer
	}

	return o.seal(ActivationClaim, name, subject, nil, nil, p, &p.GenericFields)
}

// EncodeAuthorizationResponse signs the response of an external
// authorization service. The subject is the connecting user's key and
// the signer must be an account key.
func EncodeAuthorizationResponse(name string, subject KeyRef, payload *AuthorizationResponse, opts ...EncodeOption) (string, error) {
	o, err := newEncodeOptions(opts)
	if err != nil {
		return "", err
	}
	if err := o.rejectScoped(AuthorizationResponseClaim); err != nil {
		return "", err
	}

	p := NewAuthorizationResponse()
	if payload != nil {
		cp := *payload
		p = &cp
	}
	issuer, err := o.issuerAccountKey()
	if err != nil {
		return "", err
	}
	if issuer != "" {
		p.IssuerAccount = issuer
	}

	return o.seal(AuthorizationResponseClaim, name, subject, userKeys, accountKeys, p, &p.GenericFields)
}

// EncodeGeneric signs a free-form claim under a caller-chosen kind tag.
// Subject and signer types are unrestricted. The payload's "type" and
// "version" entries are owned by the encoder and overwritten.
func EncodeGeneric(name string, subject KeyRef, kind ClaimType, payload map[string]interface{}, opts ...EncodeOption) (string, error) {
	o, err := newEncodeOptions(opts)
	if err != nil {
		return "", err
	}
	if err := o.rejectIssuerAccount(GenericClaim); err != nil {
		return "", err
	}
	if err := o.rejectScoped(GenericClaim); err != nil {
		return "", err
	}

	alg, err := algorithms.Get(o.algorithm)
	if err != nil {
		return "", err
	}

	m := map[string]interface{}{}
	if payload != nil {
		m = maps.Clone(payload)
	}
	delete(m, "type")
	delete(m, "version")
	if alg.Version() != 1 {
		m["type"] = string(kind)
		m["version"] = alg.Version()
	}

	return o.seal(kind, name, subject, nil, nil, m, nil)
}

// wireClaims is the envelope as serialized, with the kind-specific
// payload attached
type wireClaims struct {
	ClaimsData
	Nats interface{} `json:"nats,omitempty"`
}

// seal builds the envelope, computes the token id, signs, and emits the
// three-segment wire form. The token id is a digest of the envelope
// serialized without an id; the signature then covers the complete
// envelope including it.
func (o *encodeOptions) seal(kind ClaimType, name string, subject KeyRef, subjectTypes, signerTypes []nkeys.PrefixByte, payload interface{}, gf *GenericFields) (string, error) {
	alg, err := algorithms.Get(o.algorithm)
	if err != nil {
		return "", err
	}

	subjectKP, err := resolveKey(subject, subjectTypes, false)
	if err != nil {
		return "", err
	}
	subjectPub, err := subjectKP.PublicKey()
	if err != nil {
		return "", fmt.Errorf("failed to get subject public key: %w", err)
	}

	signerRef := o.signer
	if signerRef == nil {
		signerRef = subjectKP
	}
	signerKP, err := resolveSigner(signerRef, signerTypes)
	if err != nil {
		return "", err
	}
	signerPub, err := signerKP.PublicKey()
	if err != nil {
		return "", fmt.Errorf("failed to get signer public key: %w", err)
	}

	w := &wireClaims{
		ClaimsData: ClaimsData{
			Audience:  o.audience,
			Expires:   o.expires,
			IssuedAt:  time.Now().Unix(),
			Issuer:    signerPub,
			Name:      name,
			NotBefore: o.notBefore,
			Subject:   subjectPub,
		},
		Nats: payload,
	}

	// Discriminant placement is the wire generations' one structural
	// difference: legacy tokens tag the envelope, current tokens tag
	// the payload and carry a version
	if alg.Version() == 1 {
		w.Type = kind
		if gf != nil {
			*gf = GenericFields{Tags: gf.Tags}
		}
	} else if gf != nil {
		gf.Type = kind
		gf.Version = alg.Version()
	}

	pre, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}
	id, err := o.idGenerator.TokenID(pre)
	if err != nil {
		return "", err
	}
	w.ID = id

	payloadJSON, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}
	headerJSON, err := json.Marshal(&Header{Type: TokenTypeJwt, Algorithm: alg.Name()})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}

	headerSeg := encodeSegment(headerJSON)
	payloadSeg := encodeSegment(payloadJSON)

	sig, err := signerKP.Sign(alg.SigningInput(headerSeg, payloadSeg))
	if err != nil {
		return "", fmt.Errorf("failed to sign claims: %w", err)
	}

	return fmt.Sprintf("%s.%s.%s", headerSeg, payloadSeg, encodeSegment(sig)), nil
}
