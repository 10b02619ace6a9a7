package claims

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nats-io/nkeys"
)

// keyOfType returns a rule checking that a string value is a public key
// of the given type. Empty values pass; combine with validation.Required
// to forbid them.
func keyOfType(prefix nkeys.PrefixByte) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, err := nkeys.Decode(prefix, []byte(s)); err != nil {
			return fmt.Errorf("not a valid %s public key", prefixLetter(prefix))
		}
		return nil
	})
}

// keyListOfType returns a rule checking every entry of a StringList
// against the given key type
func keyListOfType(prefix nkeys.PrefixByte) validation.Rule {
	return validation.By(func(value interface{}) error {
		keys, _ := value.(StringList)
		for _, k := range keys {
			if _, err := nkeys.Decode(prefix, []byte(k)); err != nil {
				return fmt.Errorf("%q is not a valid %s public key", k, prefixLetter(prefix))
			}
		}
		return nil
	})
}

// revocationKeys returns a rule checking that revocation entries name
// keys of the given type or the wildcard entry
func revocationKeys(prefix nkeys.PrefixByte) validation.Rule {
	return validation.By(func(value interface{}) error {
		revocations, _ := value.(RevocationList)
		for k := range revocations {
			if k == All {
				continue
			}
			if _, err := nkeys.Decode(prefix, []byte(k)); err != nil {
				return fmt.Errorf("%q is not a valid %s public key", k, prefixLetter(prefix))
			}
		}
		return nil
	})
}

// serviceURLs checks that every entry is a messaging service URL:
// nats, tls or websocket scheme, a host, and no user or path parts
func serviceURLs(value interface{}) error {
	urls, _ := value.(StringList)
	for _, v := range urls {
		u, err := url.Parse(v)
		if err != nil {
			return fmt.Errorf("service url %q is invalid", v)
		}
		switch strings.ToLower(u.Scheme) {
		case "nats", "tls", "ws", "wss":
		default:
			return fmt.Errorf("service url %q has an unsupported scheme", v)
		}
		if u.Host == "" {
			return fmt.Errorf("service url %q misses a host", v)
		}
		if u.User != nil || u.Path != "" {
			return fmt.Errorf("service url %q must not carry user or path parts", v)
		}
	}
	return nil
}

// cidrBlocks checks that every entry parses as a CIDR address block
func cidrBlocks(value interface{}) error {
	blocks, _ := value.(CIDRList)
	for _, b := range blocks {
		if _, _, err := net.ParseCIDR(b); err != nil {
			return fmt.Errorf("%q is not a valid CIDR block", b)
		}
	}
	return nil
}

// timeRanges checks every entry of a time range list
func timeRanges(value interface{}) error {
	ranges, _ := value.([]TimeRange)
	for i := range ranges {
		if err := ranges[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
