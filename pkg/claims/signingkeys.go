package claims

import (
	"encoding/json"
	"fmt"
)

const userScopeKind = "user_scope"

// UserScope attaches a permission template to an account signing key.
// Users issued by a scoped key carry no permissions of their own; the
// template governs them instead.
type UserScope struct {
	// Role is a human label for the scope (e.g. "dashboard-reader")
	Role string `json:"role,omitempty"`

	// Template holds the permissions and limits applied to users issued
	// by the scoped key
	Template UserPermissionLimits `json:"template"`
}

// SigningKey is one entry of an account's signing key list: a bare
// account key, or a key carrying a user scope
type SigningKey struct {
	Key   string
	Scope *UserScope
}

// SigningKeys is the ordered signing key list of an account. Order is
// preserved through serialization so re-encoding a claim is stable.
type SigningKeys []SigningKey

// Add appends plain signing keys, ignoring duplicates
func (sk *SigningKeys) Add(keys ...string) {
	for _, k := range keys {
		if k == "" || sk.Contains(k) {
			continue
		}
		*sk = append(*sk, SigningKey{Key: k})
	}
}

// AddScoped appends a signing key carrying a user scope, replacing the
// scope of an existing entry with the same key
func (sk *SigningKeys) AddScoped(key string, scope UserScope) {
	for i := range *sk {
		if (*sk)[i].Key == key {
			(*sk)[i].Scope = &scope
			return
		}
	}
	*sk = append(*sk, SigningKey{Key: key, Scope: &scope})
}

// Remove deletes signing keys from the list
func (sk *SigningKeys) Remove(keys ...string) {
	for _, k := range keys {
		for i := range *sk {
			if (*sk)[i].Key == k {
				a := *sk
				*sk = append(a[:i], a[i+1:]...)
				break
			}
		}
	}
}

// Contains returns true if the list holds the key, scoped or not
func (sk SigningKeys) Contains(key string) bool {
	for i := range sk {
		if sk[i].Key == key {
			return true
		}
	}
	return false
}

// GetScope returns the user scope attached to a signing key. The second
// return is false when the key is not in the list at all.
func (sk SigningKeys) GetScope(key string) (*UserScope, bool) {
	for i := range sk {
		if sk[i].Key == key {
			return sk[i].Scope, true
		}
	}
	return nil, false
}

// Keys returns the bare key strings in list order
func (sk SigningKeys) Keys() []string {
	keys := make([]string, 0, len(sk))
	for i := range sk {
		keys = append(keys, sk[i].Key)
	}
	return keys
}

// scopedKey is the wire shape of a signing key carrying a scope
type scopedKey struct {
	Kind     string               `json:"kind"`
	Key      string               `json:"key"`
	Role     string               `json:"role,omitempty"`
	Template UserPermissionLimits `json:"template"`
}

// MarshalJSON serializes the list as an array mixing bare key strings
// and scope objects
func (sk SigningKeys) MarshalJSON() ([]byte, error) {
	out := make([]interface{}, 0, len(sk))
	for i := range sk {
		if sk[i].Scope == nil {
			out = append(out, sk[i].Key)
			continue
		}
		out = append(out, &scopedKey{
			Kind:     userScopeKind,
			Key:      sk[i].Key,
			Role:     sk[i].Scope.Role,
			Template: sk[i].Scope.Template,
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts an array mixing bare key strings and scope objects
func (sk *SigningKeys) UnmarshalJSON(data []byte) error {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	keys := make(SigningKeys, 0, len(entries))
	for _, e := range entries {
		var key string
		if err := json.Unmarshal(e, &key); err == nil {
			keys = append(keys, SigningKey{Key: key})
			continue
		}

		var scoped scopedKey
		if err := json.Unmarshal(e, &scoped); err != nil {
			return fmt.Errorf("invalid signing key entry: %w", err)
		}
		if scoped.Kind != userScopeKind {
			return fmt.Errorf("unknown signing key scope kind %q", scoped.Kind)
		}
		keys = append(keys, SigningKey{
			Key:   scoped.Key,
			Scope: &UserScope{Role: scoped.Role, Template: scoped.Template},
		})
	}

	*sk = keys
	return nil
}
