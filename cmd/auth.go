package main

import (
	"context"

	"github.com/desertthunder/setlistr/internal/ui"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs one loopback authorization and prints the account greeting.
//
// Tokens are not persisted, so this only proves the credentials and redirect work.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	provider, err := r.spotify()
	if err != nil {
		return err
	}
	auth, err := r.authenticator(provider)
	if err != nil {
		return err
	}

	progress, stop := ui.Watch(r.status, 16)
	session, err := auth.Authorize(ctx, progress)
	stop()
	if err != nil {
		return err
	}

	r.logger.Info("authorized", "user", session.Profile.ID)
	return r.writePlain("%s\n", ui.OK("✓ Authorized as "+session.Profile.DisplayName))
}
