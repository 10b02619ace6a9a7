package claims

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nats-io/nkeys"
)

// Activation is the payload of an activation claim: it grants an
// importing account access to one exported subject
type Activation struct {
	// ImportSubject is the exported subject being granted
	ImportSubject Subject `json:"subject,omitempty"`

	// ImportType marks the grant as a stream or a service
	ImportType ExportType `json:"kind,omitempty"`

	// IssuerAccount is the public key of the exporting account when the
	// envelope issuer is one of its signing keys
	IssuerAccount string `json:"issuer_account,omitempty"`

	GenericFields
}

// NewActivation returns an activation payload with defaults
func NewActivation() *Activation {
	return &Activation{}
}

// IsService returns true if the activation grants a service
func (a *Activation) IsService() bool {
	return a.ImportType == Service
}

// IsStream returns true if the activation grants a stream
func (a *Activation) IsStream() bool {
	return a.ImportType == Stream
}

// Validate checks the payload's field shapes
func (a *Activation) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.ImportSubject, validation.Required),
		validation.Field(&a.ImportType, validation.By(knownExportType)),
		validation.Field(&a.IssuerAccount, keyOfType(nkeys.PrefixByteAccount)),
	)
}
