package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/waxlog/internal/server"
	"github.com/desertthunder/waxlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// attachDocSession forwards the identity session to the document store so its
// requests run as the logged-in user.
func (r *Runner) attachDocSession() {
	if s, ok := r.docs.(interface{ SetSession(string) }); ok {
		s.SetSession(r.identity.SessionSecret())
	}
}

// verifyCallbackURL is where verification emails send the user's browser.
func (r *Runner) verifyCallbackURL() string {
	return fmt.Sprintf("http://%s:%d/verify", r.config.Server.Host, r.config.Server.Port)
}

// AccountLogin creates a session and hydrates the collection.
func (r *Runner) AccountLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}

	user, err := r.identity.Login(ctx, email, password)
	if err != nil {
		return err
	}

	r.attachDocSession()
	if err := r.saveSession(); err != nil {
		r.logger.Warnf("session not persisted: %v", err)
	}

	if err := r.session.OnLogin(ctx, user); err != nil {
		r.logger.Warnf("collection fetch failed, run 'list sync' to retry: %v", err)
	}

	r.writePlain("✓ Logged in as %s\n", user.Email)
	if !user.EmailVerified {
		r.writePlain("Your email is not verified. Run 'waxlog account verify'.\n")
	}
	return nil
}

// AccountRegister creates an account, logs in, and sends a verification email.
func (r *Runner) AccountRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}

	user, err := r.identity.Register(ctx, email, password, cmd.String("name"), r.verifyCallbackURL())
	if err != nil {
		return err
	}

	r.attachDocSession()
	if err := r.saveSession(); err != nil {
		r.logger.Warnf("session not persisted: %v", err)
	}

	if err := r.session.OnLogin(ctx, user); err != nil {
		r.logger.Warnf("collection fetch failed, run 'list sync' to retry: %v", err)
	}

	r.writePlain("✓ Account created for %s\n", user.Email)
	r.writePlain("Check your inbox for a verification email.\n")
	return nil
}

// AccountLogout deletes the session. Local state is cleared regardless of the
// remote outcome.
func (r *Runner) AccountLogout(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession()
	if err := r.identity.Logout(ctx); err != nil {
		r.logger.Warnf("remote logout failed: %v", err)
	}

	r.session.OnLogout()
	r.clearSession()
	r.attachDocSession()

	return r.writePlain("✓ Logged out\n")
}

// AccountWhoami shows the current user.
func (r *Runner) AccountWhoami(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession()

	user, err := r.identity.Current(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("User: %s\n", user.Name)
	r.writePlain("Email: %s\n", user.Email)
	if user.EmailVerified {
		r.writePlain("Verified: ✓\n")
	} else {
		r.writePlain("Verified: ✗\n")
	}
	return nil
}

// AccountPassword changes the account password.
func (r *Runner) AccountPassword(ctx context.Context, cmd *cli.Command) error {
	current := cmd.StringArg("current")
	next := cmd.StringArg("new")
	if current == "" || next == "" {
		return fmt.Errorf("%w: current and new passwords are required", shared.ErrMissingArgument)
	}

	r.restoreSession()
	if err := r.identity.UpdatePassword(ctx, next, current); err != nil {
		return err
	}

	return r.writePlain("✓ Password updated\n")
}

// AccountEmail changes the account email and sends a fresh verification email.
func (r *Runner) AccountEmail(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}

	r.restoreSession()
	if err := r.identity.UpdateEmail(ctx, email, password, r.verifyCallbackURL()); err != nil {
		return err
	}

	r.writePlain("✓ Email updated to %s\n", email)
	r.writePlain("Check your inbox for a verification email.\n")
	return nil
}

// AccountVerify sends a verification email and runs a local callback server
// until the link is clicked or the timeout expires.
func (r *Runner) AccountVerify(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession()

	if err := r.identity.SendVerification(ctx, r.verifyCallbackURL()); err != nil {
		return err
	}

	handler := server.NewVerificationHandler(r.identity)
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	serveCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(serveCtx, addr, router)
	}()

	r.writePlain("Verification email sent. Waiting for the link to be clicked...\n")
	r.logger.Infof("listening on %s for the verification callback", addr)

	select {
	case result := <-handler.Result():
		cancel()
		if err := result.Error(); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		return r.writePlain("✓ Email verified\n")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("callback server failed: %w", err)
		}
		return fmt.Errorf("timed out waiting for the verification link")
	}
}
