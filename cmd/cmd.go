// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command that touches the database or credentials.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// serveCommand runs the HTTP + MCP server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server with Spotify OAuth routes",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides the configured host and port",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles Spotify authentication
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "url",
				Usage: "Print the Spotify authorization URL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "state",
						Usage: "State token to include in the URL",
					},
				},
				Action: r.AuthURL,
			},
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2 in the browser",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
		},
	}
}

// moodsCommand lists stored mood tags
func moodsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "moods",
		Usage:  "List stored moods",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Moods,
	}
}

// playlistsCommand lists generated playlists for a user
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List generated playlists for a user",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "User ID returned by auth login",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Output CSV instead of plain text",
			},
		},
		Action: r.Playlists,
	}
}

// generateCommand creates a mood playlist on the user's Spotify account
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a mood playlist on the user's Spotify account",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "User ID returned by auth login",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "mood",
				Aliases:  []string{"m"},
				Usage:    "Mood to search tracks for (e.g. focused, calm, energetic)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Name for the new playlist",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of tracks to add (1-50)",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the playlist public",
			},
		},
		Action: r.Generate,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Interactive terminal UI for playlist generation",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "User ID returned by auth login",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of tracks to add (1-50)",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make generated playlists public",
			},
		},
		Action: r.TUI,
	}
}
