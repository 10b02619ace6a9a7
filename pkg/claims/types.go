package claims

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NoLimit marks a numeric limit as unlimited
const NoLimit = -1

// Subject is a messaging subject, possibly containing wildcards
type Subject string

// HasWildCards reports whether the subject contains position or full wildcards
func (s Subject) HasWildCards() bool {
	v := string(s)
	return strings.HasSuffix(v, ".>") ||
		strings.Contains(v, ".*.") ||
		strings.HasSuffix(v, ".*") ||
		strings.HasPrefix(v, "*.") ||
		v == "*" || v == ">"
}

// StringList is a serializable list of unique strings
type StringList []string

// Contains returns true if the list contains p
func (u *StringList) Contains(p string) bool {
	for _, t := range *u {
		if t == p {
			return true
		}
	}
	return false
}

// Add appends 1 or more strings to a list, ignoring duplicates
func (u *StringList) Add(p ...string) {
	for _, v := range p {
		if u.Contains(v) || v == "" {
			continue
		}
		*u = append(*u, v)
	}
}

// Remove removes 1 or more strings from a list
func (u *StringList) Remove(p ...string) {
	for _, v := range p {
		for i, t := range *u {
			if t == v {
				a := *u
				*u = append(a[:i], a[i+1:]...)
				break
			}
		}
	}
}

// TagList is a unique list of lowercased tags
type TagList []string

// Contains returns true if the list contains the tag
func (u *TagList) Contains(p string) bool {
	p = strings.ToLower(strings.TrimSpace(p))
	for _, t := range *u {
		if t == p {
			return true
		}
	}
	return false
}

// Add appends 1 or more tags to a list, lowercasing and deduplicating
func (u *TagList) Add(p ...string) {
	for _, v := range p {
		v = strings.ToLower(strings.TrimSpace(v))
		if u.Contains(v) || v == "" {
			continue
		}
		*u = append(*u, v)
	}
}

// Remove removes 1 or more tags from a list
func (u *TagList) Remove(p ...string) {
	for _, v := range p {
		v = strings.ToLower(strings.TrimSpace(v))
		for i, t := range *u {
			if t == v {
				a := *u
				*u = append(a[:i], a[i+1:]...)
				break
			}
		}
	}
}

// CIDRList is a list of CIDR address blocks a user may connect from
type CIDRList TagList

// Contains returns true if the list contains the block
func (c *CIDRList) Contains(p string) bool {
	return (*TagList)(c).Contains(p)
}

// Add appends 1 or more blocks to the list
func (c *CIDRList) Add(p ...string) {
	(*TagList)(c).Add(p...)
}

// Remove removes 1 or more blocks from the list
func (c *CIDRList) Remove(p ...string) {
	(*TagList)(c).Remove(p...)
}

// ExportType defines the type of import/export
type ExportType int

const (
	// Unknown is used if we don't know the type
	Unknown ExportType = iota
	// Stream defines the type field value for a stream "stream"
	Stream
	// Service defines the type field value for a service "service"
	Service
)

func (t ExportType) String() string {
	switch t {
	case Stream:
		return "stream"
	case Service:
		return "service"
	}
	return "unknown"
}

// MarshalJSON marshals the enum as a quoted json string
func (t *ExportType) MarshalJSON() ([]byte, error) {
	switch *t {
	case Stream, Service:
		return json.Marshal(t.String())
	}
	return nil, fmt.Errorf("unknown export type")
}

// UnmarshalJSON unmarshals a quoted json string to the enum value
func (t *ExportType) UnmarshalJSON(b []byte) error {
	var j string
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	switch j {
	case "stream":
		*t = Stream
		return nil
	case "service":
		*t = Service
		return nil
	}
	return fmt.Errorf("unknown export type %q", j)
}

// Permission defines allow and deny subject lists for a single direction
type Permission struct {
	Allow StringList `json:"allow,omitempty"`
	Deny  StringList `json:"deny,omitempty"`
}

// ResponsePermission can be used to allow responses to any reply subject
// that is received on a valid subscription
type ResponsePermission struct {
	MaxMsgs int           `json:"max"`
	Expires time.Duration `json:"ttl"`
}

// Permissions are publish and subscribe allow/deny lists plus an
// optional response quota
type Permissions struct {
	Pub  Permission          `json:"pub,omitempty"`
	Sub  Permission          `json:"sub,omitempty"`
	Resp *ResponsePermission `json:"resp,omitempty"`
}

// TimeRange bounds the local times within which a user may connect.
// Start and End are "hh:mm:ss" in 24 hour format.
type TimeRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Validate checks the values in a time range
func (tr *TimeRange) Validate() error {
	const format = "15:04:05"
	if _, err := time.Parse(format, tr.Start); err != nil {
		return fmt.Errorf("start in time range is invalid %q", tr.Start)
	}
	if _, err := time.Parse(format, tr.End); err != nil {
		return fmt.Errorf("end in time range is invalid %q", tr.End)
	}
	return nil
}

// All is the wildcard revocation entry: it revokes every key issued
// before its timestamp
const All = "*"

// RevocationList maps a public key to the unix timestamp before which
// its claims are considered revoked
type RevocationList map[string]int64

// Revoke enters a revocation for the public key at the given cutoff.
// An existing later cutoff is kept.
func (r RevocationList) Revoke(pubKey string, timestamp time.Time) {
	newTS := timestamp.Unix()
	if ts, ok := r[pubKey]; ok && ts > newTS {
		return
	}
	r[pubKey] = newTS
}

// ClearRevocation removes the revocation for the public key
func (r RevocationList) ClearRevocation(pubKey string) {
	delete(r, pubKey)
}

// IsRevoked checks if the public key is revoked for claims issued at
// the given time, honoring the wildcard entry
func (r RevocationList) IsRevoked(pubKey string, timestamp time.Time) bool {
	if ts, ok := r[All]; ok && ts >= timestamp.Unix() {
		return true
	}
	ts, ok := r[pubKey]
	return ok && ts >= timestamp.Unix()
}
