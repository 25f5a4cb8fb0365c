package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/setlistr/internal/formatter"
	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/shared"
	"github.com/desertthunder/setlistr/internal/tasks"
	"github.com/desertthunder/setlistr/internal/ui"
	"github.com/urfave/cli/v3"
)

func artistArg(cmd *cli.Command) (string, error) {
	artist := strings.TrimSpace(cmd.StringArg("artist"))
	if artist == "" {
		return "", fmt.Errorf("%w: artist", shared.ErrMissingArgument)
	}
	return artist, nil
}

// SetlistSearch lists the setlists matching an artist with the index each one is selected by.
func (r *Runner) SetlistSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}
	artist, err := artistArg(cmd)
	if err != nil {
		return err
	}

	source, err := r.setlists()
	if err != nil {
		return err
	}
	session := tasks.NewSession(nil, source, nil, nil, r.logger)

	progress, stop := ui.Watch(r.status, 4)
	summaries, err := session.Search(ctx, artist, progress)
	stop()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if summaries == nil {
			summaries = []models.SetlistSummary{}
		}
		return r.writeJSON(summaries, true)
	}
	return r.write(formatter.SummariesToText(summaries))
}

// SetlistShow searches for an artist, loads the result at --index and renders it.
func (r *Runner) SetlistShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}
	artist, err := artistArg(cmd)
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	source, err := r.setlists()
	if err != nil {
		return err
	}
	session := tasks.NewSession(nil, source, nil, nil, r.logger)

	progress, stop := ui.Watch(r.status, 4)
	detail, err := selectSetlist(ctx, session, artist, cmd.Int("index"), progress)
	stop()
	if err != nil {
		return err
	}

	if out := cmd.String("output"); out != "" || cmd.Bool("save") {
		path, err := formatter.WriteSetlistExport(detail, format, out)
		if err != nil {
			return err
		}
		r.logger.Info("setlist saved", "file", path)
		return r.writePlain("✓ Saved %s\n", path)
	}

	data, err := formatter.RenderSetlist(detail, format)
	if err != nil {
		return err
	}
	return r.write(data)
}

// selectSetlist runs a search and selects the result at index.
func selectSetlist(ctx context.Context, session *tasks.Session, artist string, index int, progress chan<- tasks.ProgressUpdate) (*models.SetlistDetail, error) {
	summaries, err := session.Search(ctx, artist, progress)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("%w: no setlists found for %q", shared.ErrNoSelection, artist)
	}
	return session.SelectSetlist(ctx, index, progress)
}
