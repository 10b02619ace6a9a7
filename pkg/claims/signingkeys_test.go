package claims

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nats-io/nkeys"
)

func TestSigningKeysList(t *testing.T) {
	k1 := publicKey(t, testKey(t, nkeys.CreateAccount))
	k2 := publicKey(t, testKey(t, nkeys.CreateAccount))

	t.Run("Add deduplicates", func(t *testing.T) {
		var sk SigningKeys
		sk.Add(k1, k2, k1, "")
		if len(sk) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(sk))
		}
		if !sk.Contains(k1) || !sk.Contains(k2) {
			t.Error("Expected both keys to be present")
		}
	})

	t.Run("AddScoped replaces the scope in place", func(t *testing.T) {
		var sk SigningKeys
		sk.Add(k1, k2)
		sk.AddScoped(k1, UserScope{Role: "reader"})
		if len(sk) != 2 {
			t.Fatalf("Expected scoping not to grow the list, got %d entries", len(sk))
		}
		scope, ok := sk.GetScope(k1)
		if !ok || scope == nil || scope.Role != "reader" {
			t.Fatalf("Expected reader scope on %s, got %v", k1, scope)
		}
		sk.AddScoped(k1, UserScope{Role: "writer"})
		scope, _ = sk.GetScope(k1)
		if scope.Role != "writer" {
			t.Errorf("Expected the scope to be replaced, got %q", scope.Role)
		}
	})

	t.Run("GetScope distinguishes bare keys from absent keys", func(t *testing.T) {
		var sk SigningKeys
		sk.Add(k1)
		scope, ok := sk.GetScope(k1)
		if !ok || scope != nil {
			t.Errorf("Expected bare key to report present with nil scope, got %v %v", scope, ok)
		}
		if _, ok := sk.GetScope(k2); ok {
			t.Error("Expected absent key to report not found")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		var sk SigningKeys
		sk.Add(k1, k2)
		sk.Remove(k1)
		if sk.Contains(k1) || !sk.Contains(k2) {
			t.Errorf("Expected only %s to remain, got %v", k2, sk.Keys())
		}
	})
}

func TestSigningKeysJSON(t *testing.T) {
	k1 := publicKey(t, testKey(t, nkeys.CreateAccount))
	k2 := publicKey(t, testKey(t, nkeys.CreateAccount))

	t.Run("Mixed list round-trips in order", func(t *testing.T) {
		var sk SigningKeys
		sk.Add(k1)
		template := UserPermissionLimits{}
		template.Pub.Allow.Add("dashboard.>")
		sk.AddScoped(k2, UserScope{Role: "dashboard", Template: template})

		b, err := json.Marshal(sk)
		if err != nil {
			t.Fatalf("Failed to marshal: %v", err)
		}
		if !strings.Contains(string(b), `"kind":"user_scope"`) {
			t.Errorf("Expected scoped entry on the wire, got %s", b)
		}

		var back SigningKeys
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("Failed to unmarshal: %v", err)
		}
		if len(back) != 2 || back[0].Key != k1 || back[1].Key != k2 {
			t.Fatalf("Expected order to be preserved, got %v", back.Keys())
		}
		if back[0].Scope != nil {
			t.Error("Expected first entry to stay bare")
		}
		scope, _ := back.GetScope(k2)
		if scope == nil || scope.Role != "dashboard" {
			t.Fatalf("Expected dashboard scope, got %v", scope)
		}
		if !scope.Template.Pub.Allow.Contains("dashboard.>") {
			t.Error("Expected the template to round-trip")
		}
	})

	t.Run("Unknown scope kinds rejected", func(t *testing.T) {
		var sk SigningKeys
		err := json.Unmarshal([]byte(`[{"kind":"team_scope","key":"ABC"}]`), &sk)
		if err == nil || !strings.Contains(err.Error(), "team_scope") {
			t.Errorf("Expected an unknown kind error, got %v", err)
		}
	})

	t.Run("Scoped keys travel through account claims", func(t *testing.T) {
		acct := testKey(t, nkeys.CreateAccount)
		signingKey := testKey(t, nkeys.CreateAccount)
		skPub := publicKey(t, signingKey)

		template := UserPermissionLimits{}
		template.Sub.Allow.Add("metrics.>")
		template.BearerToken = true

		p := NewAccount()
		p.SigningKeys.AddScoped(skPub, UserScope{Role: "metrics-reader", Template: template})

		tok, err := EncodeAccount("A", acct, p)
		if err != nil {
			t.Fatalf("Failed to encode account: %v", err)
		}
		c, err := DecodeAccount(tok)
		if err != nil {
			t.Fatalf("Failed to decode account: %v", err)
		}
		scope, ok := c.Account.SigningKeys.GetScope(skPub)
		if !ok || scope == nil {
			t.Fatalf("Expected the scoped key to round-trip, got %v %v", scope, ok)
		}
		if scope.Role != "metrics-reader" || !scope.Template.Sub.Allow.Contains("metrics.>") {
			t.Errorf("Expected the scope to round-trip, got %+v", scope)
		}
	})
}
