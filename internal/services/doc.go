// Package services implements the Spotify Web API client.
//
// # Request Flow
//
// Every authorized call goes through doRequest, which waits on the client's
// rate limiter, asks the [Authorizer] for a valid bearer token (triggering at
// most one transparent refresh), and decodes the JSON response. Token refresh
// therefore always completes before the dependent API call is sent.
//
// # Error Handling
//
// The client uses typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no credential stored, re-login required
//   - [shared.ErrAPIRequest] : non-2xx response or transport failure
//   - [shared.ErrTrackNotPlayable] : playback rejected for this account
//
// Responses are decoded into wire types mirroring the Web API JSON and mapped
// to the package's domain types ([Track], [UserProfile], [Device]).
package services
