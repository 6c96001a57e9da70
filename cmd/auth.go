package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thornwyck/focusfm/internal/formatter"
	"github.com/thornwyck/focusfm/internal/server"
	"github.com/thornwyck/focusfm/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthURL prints the Spotify authorization URL for manual flows.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify credentials are not configured, set them in config.toml", shared.ErrServiceUnavailable)
	}

	return r.writePlain("%s\n", formatter.FormatAuthURL(r.spotify.AuthURL(cmd.String("state"))))
}

// AuthLogin performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server on the configured address, opens the browser for
// user authorization, and stores the authenticated user in the database.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	db, engine, config, err := r.connect(cmd.String("config"))
	if err != nil {
		return err
	}
	defer db.Close()

	state := shared.GenerateID()
	loginHandler := server.NewLoginHandler(engine, state)
	router := server.NewBasicRouter()
	router.Handler(loginHandler)

	httpServer := &http.Server{
		Addr:    config.Server.Addr(),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	authURL := engine.AuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.LoginResult

	select {
	case result = <-loginHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("authorization failed: %w", result.Error())
	}

	r.writePlainln("✓ %s", formatter.FormatAuthSuccess(result.User))
	r.writePlain("Your user ID is: %s\n", result.User.ID())
	r.writePlain("You can now use: focusfm generate --user %s --mood focused --name \"Deep Work\"\n", result.User.ID())

	return nil
}
