// Package auth owns the OAuth session lifecycle.
//
// # Token Lifecycle
//
// [Session] is an explicit session object constructed at startup and passed to
// every component that makes authorized calls. It moves through four states:
//
//	Unauthenticated → Authenticated-Valid → Authenticated-Expired → Refreshing
//
// [Session.BeginLogin] generates and persists a PKCE verifier and returns the
// authorization URL. [Session.CompleteLogin] redeems the one-time authorization
// code against the token endpoint using the stored verifier, persists the
// resulting token pair, and clears the verifier so the exchange cannot replay.
//
// [Session.EnsureValid] is the single gate for every authorized request: it
// returns the stored access token while it is fresh, and performs exactly one
// refresh-token exchange once the issue timestamp is older than
// [AccessTokenTTL]. Concurrent callers join the in-flight refresh instead of
// issuing redundant token-endpoint calls.
//
// # Failure Policy
//
// A failed refresh, or a refresh response without an access token, clears the
// persisted credential wholesale and forces re-login. All other failures are
// returned to the caller without touching stored state.
package auth
