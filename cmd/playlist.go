package main

import (
	"context"
	"errors"

	"github.com/desertthunder/setlistr/internal/formatter"
	"github.com/desertthunder/setlistr/internal/tasks"
	"github.com/desertthunder/setlistr/internal/ui"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate authorizes, selects a setlist and synthesizes a playlist from it in one process.
//
// The report is printed whenever a playlist was attempted, including partial runs; the error still decides the
// exit status.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}
	artist, err := artistArg(cmd)
	if err != nil {
		return err
	}

	provider, err := r.spotify()
	if err != nil {
		return err
	}
	source, err := r.setlists()
	if err != nil {
		return err
	}
	auth, err := r.authenticator(provider)
	if err != nil {
		return err
	}
	recorder, closeDB := r.recorder()
	defer closeDB()

	engine := tasks.NewPlaylistEngine(provider, r.config.Spotify.BatchSize, r.logger)
	session := tasks.NewSession(auth, source, engine, recorder, r.logger)

	progress, stop := ui.Watch(r.status, 32)
	defer stop()

	if _, err := session.InitiateAuthorization(ctx, progress); err != nil {
		return err
	}
	if _, err := selectSetlist(ctx, session, artist, cmd.Int("index"), progress); err != nil {
		return err
	}

	result, err := session.CreatePlaylistFromSelection(ctx, progress)
	stop()
	if result != nil {
		report := append([]byte("\n"), formatter.ReportToText(result)...)
		if writeErr := r.write(report); writeErr != nil {
			r.logger.Error("could not print report", "playlist", result.PlaylistID, "error", writeErr)
			return errors.Join(err, writeErr)
		}
	}
	return err
}
