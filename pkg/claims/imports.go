package claims

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nats-io/nkeys"
)

// Import describes a mapping from another account's export into this
// account
type Import struct {
	Name string `json:"name,omitempty"`

	// Subject is the subject of the remote export being imported
	Subject Subject `json:"subject,omitempty"`

	// Account is the public key of the exporting account
	Account string `json:"account,omitempty"`

	// Token is an embedded activation token, required when the export
	// demands one
	Token string `json:"token,omitempty"`

	// LocalSubject remaps the imported subject inside this account
	LocalSubject Subject `json:"local_subject,omitempty"`

	Type ExportType `json:"type,omitempty"`

	// Share exposes request latency information to the exporter, for
	// service imports only
	Share bool `json:"share,omitempty"`
}

// IsService returns true if the import is of type service
func (i *Import) IsService() bool {
	return i.Type == Service
}

// IsStream returns true if the import is of type stream
func (i *Import) IsStream() bool {
	return i.Type == Stream
}

// Validate checks the import's field shapes
func (i *Import) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Subject, validation.Required),
		validation.Field(&i.Account, keyOfType(nkeys.PrefixByteAccount)),
		validation.Field(&i.Type, validation.By(knownExportType)),
	)
}

// Imports is a list of imports
type Imports []*Import

// Add appends imports to the list
func (i *Imports) Add(a ...*Import) {
	*i = append(*i, a...)
}

// Validate calls validate on all of the imports
func (i *Imports) Validate() error {
	for _, v := range *i {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
