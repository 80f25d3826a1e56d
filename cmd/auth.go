package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/finchley/moodfm/internal/server"
	"github.com/finchley/moodfm/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin performs the PKCE authorization flow.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// redeems the captured authorization code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: set credentials.spotify.client_id in config.toml and run 'moodfm setup'", shared.ErrMissingCredentials)
	}

	code, err := r.doLogin(ctx)
	if err != nil {
		return err
	}

	if err := r.session.CompleteLogin(ctx, code); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	r.writePlainln("✓ Login successful")
	r.writePlain("You can now use: moodfm play <mood>\n")

	return nil
}

// AuthStatus shows the current session lifecycle state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return r.writePlain("Session: unavailable (no credential store)\n")
	}

	r.writePlain("Session: %s\n", r.session.State())
	if r.session.Authenticated() {
		r.writePlain("Scopes: %s\n", r.session.Scopes())
	}
	return nil
}

// AuthLogout clears the stored credential.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: no credential store available", shared.ErrMissingCredentials)
	}

	r.session.Logout()
	return r.writePlain("✓ Logged out\n")
}

// doLogin runs the authorization redirect with a local HTTP server and returns
// the captured authorization code.
func (r *Runner) doLogin(ctx context.Context) (string, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return "", err
	}

	authURL, err := r.session.BeginLogin(state)
	if err != nil {
		return "", fmt.Errorf("failed to begin login: %w", err)
	}

	callbackHandler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Handler(callbackHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-callbackHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return "", fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Code == "" {
		return "", fmt.Errorf("no authorization code received")
	}

	return result.Code, nil
}
