package auth

import "golang.org/x/oauth2"

// NewVerifier returns a cryptographically random PKCE code verifier,
// URL-safe and at least 43 characters long.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// ChallengeS256 derives the URL-safe base64 SHA-256 challenge for a verifier.
//
// The challenge travels with the authorization redirect; the verifier stays
// local until the code exchange.
func ChallengeS256(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}
