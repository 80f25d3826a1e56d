// Package repositories implements SQLite-backed persistence.
//
// The only persisted state is the session [Credential]: access token, refresh
// token, issue timestamp, and the one-time PKCE verifier. The store is a
// single-row table written wholesale, so a crash mid-login never leaves a
// partially updated credential behind.
package repositories
