package claims

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ResponseType is the type of service response an export produces
type ResponseType string

const (
	// ResponseTypeSingleton is for a service that sends a single response
	ResponseTypeSingleton = ResponseType("Singleton")
	// ResponseTypeStream is for a service that sends a stream of responses
	ResponseTypeStream = ResponseType("Stream")
	// ResponseTypeChunked is for a service that sends a response in chunks
	ResponseTypeChunked = ResponseType("Chunked")
)

// Export describes a stream or service made available to other accounts
type Export struct {
	Name    string     `json:"name,omitempty"`
	Subject Subject    `json:"subject,omitempty"`
	Type    ExportType `json:"type,omitempty"`

	// TokenReq requires importers to present an activation token
	TokenReq bool `json:"token_req,omitempty"`

	// Revocations invalidate activation tokens issued to specific accounts
	Revocations RevocationList `json:"revocations,omitempty"`

	// ResponseType applies to service exports only
	ResponseType ResponseType `json:"response_type,omitempty"`

	// Advertise makes the export visible to accounts without an import
	Advertise bool `json:"advertise,omitempty"`
}

// IsService returns true if an export is for a service
func (e *Export) IsService() bool {
	return e.Type == Service
}

// IsStream returns true if an export is for a stream
func (e *Export) IsStream() bool {
	return e.Type == Stream
}

// Validate checks the export's field shapes
func (e *Export) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Subject, validation.Required),
		validation.Field(&e.Type, validation.By(knownExportType)),
		validation.Field(&e.ResponseType, validation.In(
			ResponseType(""), ResponseTypeSingleton, ResponseTypeStream, ResponseTypeChunked)),
	)
}

// Exports is a list of exports
type Exports []*Export

// Add appends exports to the list
func (e *Exports) Add(i ...*Export) {
	*e = append(*e, i...)
}

// Validate calls validate on all of the exports
func (e *Exports) Validate() error {
	for _, v := range *e {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

var errUnknownExportType = errors.New("export type must be stream or service")

func knownExportType(value interface{}) error {
	t, _ := value.(ExportType)
	switch t {
	case Stream, Service:
		return nil
	}
	return errUnknownExportType
}
