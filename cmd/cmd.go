// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const defaultConfigPath = "config.toml"

// commonFlags are accepted by every leaf command.
func commonFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   defaultConfigPath,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}, extra...)
}

func indexFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "index",
		Aliases: []string{"i"},
		Usage:   "Search result to use, as listed by 'setlist search'",
		Value:   0,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Flags:  commonFlags(),
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  commonFlags(),
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize with Spotify through the browser and show the account greeting",
				Flags:  commonFlags(),
				Action: r.AuthLogin,
			},
		},
	}
}

// setlistCommand handles setlist.fm lookups
func setlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "setlist",
		Aliases: []string{"sl"},
		Usage:   "Search and display setlists from setlist.fm",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "List setlists for an artist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "artist"}},
				Flags: commonFlags(
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				),
				Action: r.SetlistSearch,
			},
			{
				Name:      "show",
				Usage:     "Display one setlist from the search results",
				Arguments: []cli.Argument{&cli.StringArg{Name: "artist"}},
				Flags: commonFlags(
					indexFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, md or csv",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Write to a file named after the playlist",
					},
				),
				Action: r.SetlistShow,
			},
		},
	}
}

// playlistCommand handles playlist synthesis
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Create Spotify playlists from setlists",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Authorize, pick a setlist and create a private playlist from it",
				Arguments: []cli.Argument{&cli.StringArg{Name: "artist"}},
				Flags:     commonFlags(indexFlag()),
				Action:    r.PlaylistCreate,
			},
		},
	}
}

// historyCommand handles stored synthesis runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show playlists created by earlier runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded runs, newest first",
				Flags: commonFlags(
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show (0 for all)",
						Value: 20,
					},
				),
				Action: r.HistoryList,
			},
		},
	}
}
