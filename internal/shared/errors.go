package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")
	ErrVerifierMissing  = fmt.Errorf("no code verifier stored")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and playback errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrPlayerNotReady   = fmt.Errorf("playback device not ready")
	ErrTrackNotPlayable = fmt.Errorf("track not playable on this account")
	ErrDeviceNotFound   = fmt.Errorf("playback device not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
