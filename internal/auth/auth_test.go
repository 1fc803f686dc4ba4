package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/fitsync/fitsync/internal/model"
)

func TestGeneratePKCE(t *testing.T) {
	p, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE: %v", err)
	}
	if p.Verifier == "" || p.Challenge == "" {
		t.Fatal("empty PKCE material")
	}
	// Challenge must be the S256 digest of the verifier.
	sum := sha256.Sum256([]byte(p.Verifier))
	if want := base64.RawURLEncoding.EncodeToString(sum[:]); p.Challenge != want {
		t.Fatalf("challenge mismatch: got %q, want %q", p.Challenge, want)
	}
	// Base64url output must not carry padding or URL-hostile characters.
	for _, c := range p.Verifier + p.Challenge {
		if c == '+' || c == '/' || c == '=' {
			t.Fatalf("non-url-safe character %q in PKCE material", c)
		}
	}

	q, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE: %v", err)
	}
	if q.Verifier == p.Verifier {
		t.Fatal("verifiers must be random")
	}
}

func TestValidateScope(t *testing.T) {
	cred := &model.Credential{UserID: "42ABC", Scope: "sleep activity"}

	r := ValidateScope("sleep activity heartrate", cred)
	if r.OK() {
		t.Fatal("expected missing scopes")
	}
	if len(r.Missing) != 1 || r.Missing[0] != "heartrate" {
		t.Fatalf("got missing %v, want [heartrate]", r.Missing)
	}
	if r.UserID != "42ABC" {
		t.Fatalf("got user %q", r.UserID)
	}

	if r := ValidateScope("sleep", cred); !r.OK() {
		t.Fatalf("expected all scopes present, missing %v", r.Missing)
	}

	if r := ValidateScope("sleep", nil); r.OK() || r.UserID != "user_id_not_found" {
		t.Fatalf("nil credential handling wrong: %+v", r)
	}
}
