package main

import (
	"context"

	"github.com/desertthunder/setlistr/internal/formatter"
	"github.com/desertthunder/setlistr/internal/repositories"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recorded synthesis runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	db, closeDB, err := r.database()
	if err != nil {
		return err
	}
	defer closeDB()

	records, err := repositories.NewSynthesisRepository(db).List(cmd.Int("limit"))
	if err != nil {
		return err
	}
	return r.write(formatter.HistoryToText(records))
}
