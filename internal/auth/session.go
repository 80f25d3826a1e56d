package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/finchley/moodfm/internal/repositories"
	"github.com/finchley/moodfm/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// AccessTokenTTL is how long an access token is trusted after issuance.
	AccessTokenTTL = 3600 * time.Second
)

// State describes the session lifecycle position.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedValid
	AuthenticatedExpired
	Refreshing
)

func (s State) String() string {
	switch s {
	case AuthenticatedValid:
		return "authenticated"
	case AuthenticatedExpired:
		return "expired"
	case Refreshing:
		return "refreshing"
	default:
		return "unauthenticated"
	}
}

// Store abstracts credential persistence.
//
// Implemented by [repositories.CredentialRepository].
type Store interface {
	Load() (*repositories.Credential, error)
	Save(*repositories.Credential) error
	Clear() error
}

// SessionOpts contains configuration options for creating a [Session].
type SessionOpts struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	Store       Store
	Logger      *log.Logger

	// AuthURL and TokenURL override the Spotify account endpoints, used by tests.
	AuthURL  string
	TokenURL string

	// Now overrides the wall clock, used by tests.
	Now func() time.Time
}

// refreshOp is a single in-flight refresh that concurrent callers join.
type refreshOp struct {
	done  chan struct{}
	token string
	err   error
}

// Session is the token lifecycle manager.
//
// The persisted credential has exactly one writer: this type. All mutation
// happens under the session mutex, and reads by other components go through
// [Session.EnsureValid].
type Session struct {
	config *oauth2.Config
	store  Store
	logger *log.Logger
	now    func() time.Time

	mu       sync.Mutex
	inflight *refreshOp
}

// NewSession creates a [Session] from the given options.
func NewSession(opts SessionOpts) (*Session, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id is required", shared.ErrMissingCredentials)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: credential store is required", shared.ErrInvalidConfig)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.AuthURL == "" {
		opts.AuthURL = spotifyAuthURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	config := &oauth2.Config{
		ClientID:    opts.ClientID,
		RedirectURL: opts.RedirectURI,
		Scopes:      opts.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  opts.AuthURL,
			TokenURL: opts.TokenURL,
		},
	}

	return &Session{
		config: config,
		store:  opts.Store,
		logger: opts.Logger,
		now:    opts.Now,
	}, nil
}

// BeginLogin generates a fresh PKCE verifier, persists it, and returns the
// authorization URL the user must visit.
//
// The state token ties the eventual callback to this login attempt.
func (s *Session) BeginLogin(state string) (string, error) {
	verifier := NewVerifier()

	s.mu.Lock()
	defer s.mu.Unlock()

	cred, err := s.store.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil {
		cred = &repositories.Credential{}
	}

	cred.PKCEVerifier = verifier
	if err := s.store.Save(cred); err != nil {
		return "", fmt.Errorf("failed to persist verifier: %w", err)
	}

	return s.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// CompleteLogin redeems the authorization code with the persisted verifier.
//
// On success the token pair and issue timestamp are persisted and the one-time
// verifier is cleared. On failure the credential is cleared and the user must
// log in again.
func (s *Session) CompleteLogin(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil || cred.PKCEVerifier == "" {
		return shared.ErrVerifierMissing
	}

	token, err := s.config.Exchange(ctx, code, oauth2.VerifierOption(cred.PKCEVerifier))
	if err != nil {
		s.logger.Error("authorization code exchange failed", "error", err)
		s.clearLocked()
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := s.store.Save(&repositories.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		IssuedAt:     s.now(),
	}); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}

	s.logger.Info("login complete", "has_refresh_token", token.RefreshToken != "")
	return nil
}

// EnsureValid returns a non-expired access token, refreshing first if needed.
//
// When the stored token is fresh this is a no-op. When it is expired, exactly
// one refresh-token exchange runs; concurrent callers block on that exchange
// and share its outcome. When no credential is stored the caller must
// re-authenticate.
func (s *Session) EnsureValid(ctx context.Context) (string, error) {
	s.mu.Lock()

	if op := s.inflight; op != nil {
		s.mu.Unlock()
		select {
		case <-op.done:
			return op.token, op.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	cred, err := s.store.Load()
	if err != nil {
		s.mu.Unlock()
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil || cred.AccessToken == "" {
		s.mu.Unlock()
		return "", shared.ErrNotAuthenticated
	}
	if s.now().Sub(cred.IssuedAt) < AccessTokenTTL {
		s.mu.Unlock()
		return cred.AccessToken, nil
	}

	op := &refreshOp{done: make(chan struct{})}
	s.inflight = op
	s.mu.Unlock()

	token, err := s.refresh(ctx, cred)

	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()

	op.token, op.err = token, err
	close(op.done)

	return token, err
}

// refresh performs the refresh-token grant and persists the outcome.
func (s *Session) refresh(ctx context.Context, cred *repositories.Credential) (string, error) {
	if cred.RefreshToken == "" {
		s.logger.Warn("token expired with no refresh token stored")
		s.clear()
		return "", fmt.Errorf("%w: %w", shared.ErrRefreshFailed, shared.ErrNoRefreshToken)
	}

	s.logger.Debug("access token expired, refreshing")

	// An already expired Expiry forces the token source to hit the token
	// endpoint instead of reusing the stale access token.
	stale := &oauth2.Token{
		RefreshToken: cred.RefreshToken,
		Expiry:       s.now().Add(-time.Minute),
	}

	token, err := s.config.TokenSource(ctx, stale).Token()
	if err != nil {
		s.logger.Error("token refresh failed", "error", err)
		s.clear()
		return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	if token.AccessToken == "" {
		s.logger.Error("token refresh response missing access token")
		s.clear()
		return "", fmt.Errorf("%w: response missing access token", shared.ErrRefreshFailed)
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		// Refresh responses may omit the refresh token; keep the old one.
		refreshToken = cred.RefreshToken
	}

	if err := s.store.Save(&repositories.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: refreshToken,
		IssuedAt:     s.now(),
	}); err != nil {
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	s.logger.Info("access token refreshed")
	return token.AccessToken, nil
}

// Logout clears all persisted credential fields.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// State reports the current lifecycle state without triggering a refresh.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight != nil {
		return Refreshing
	}

	cred, err := s.store.Load()
	if err != nil || cred == nil || cred.AccessToken == "" {
		return Unauthenticated
	}
	if s.now().Sub(cred.IssuedAt) >= AccessTokenTTL {
		return AuthenticatedExpired
	}
	return AuthenticatedValid
}

// Authenticated reports whether a credential is stored, expired or not.
func (s *Session) Authenticated() bool {
	return s.State() != Unauthenticated
}

// Scopes returns the requested authorization scopes as a display string.
func (s *Session) Scopes() string {
	return strings.Join(s.config.Scopes, " ")
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) clearLocked() {
	if err := s.store.Clear(); err != nil {
		s.logger.Error("failed to clear credential", "error", err)
		return
	}
	s.logger.Info("session cleared")
}
