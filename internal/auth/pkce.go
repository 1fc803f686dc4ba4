// Package auth covers the OAuth2 enrollment concerns: PKCE material and
// per-user scope validation.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// PKCE holds a code verifier and its S256 challenge for one
// authorization attempt.
type PKCE struct {
	Verifier  string
	Challenge string
}

// GeneratePKCE produces a fresh verifier/challenge pair. The verifier is
// 48 random bytes base64url-encoded; the challenge is its SHA-256 digest,
// also base64url-encoded (code_challenge_method=S256).
func GeneratePKCE() (*PKCE, error) {
	raw := make([]byte, 48)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate PKCE verifier: %w", err)
	}
	verifier := base64.RawURLEncoding.EncodeToString(raw)
	sum := sha256.Sum256([]byte(verifier))
	return &PKCE{
		Verifier:  verifier,
		Challenge: base64.RawURLEncoding.EncodeToString(sum[:]),
	}, nil
}
