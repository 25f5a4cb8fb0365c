package main

import (
	"context"
	"os"

	"github.com/desertthunder/setlistr/internal/shared"
	"github.com/urfave/cli/v3"
)

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "setlistr",
		Usage:    "Turn setlist.fm setlists into Spotify playlists",
		Version:  "0.1.0",
		Commands: r.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
