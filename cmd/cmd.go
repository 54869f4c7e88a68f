// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// searchCommand finds a user's playlists on Spotify
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search Spotify for a user's public playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Spotify username (omit to use the saved one)",
				Value:   "default",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Search,
	}
}

// addCommand stores one of a user's playlists for syncing
func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a playlist to the sync collection",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Spotify username to search (omit to use the saved one)",
				Value:   "default",
			},
		},
		Action: r.Add,
	}
}

// syncCommand downloads stored playlists
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Download enabled playlists in priority order",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Sync a single playlist by id",
			},
		},
		Action: r.Sync,
	}
}

// playlistsCommand manages the stored collection
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Manage the stored playlist collection",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored playlists in priority order",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "enable",
				Usage: "Include a playlist in sync runs",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Enable every stored playlist",
					},
				},
				Action: r.PlaylistsEnable,
			},
			{
				Name:  "disable",
				Usage: "Exclude a playlist from sync runs",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Disable every stored playlist",
					},
				},
				Action: r.PlaylistsDisable,
			},
			{
				Name:  "move",
				Usage: "Change a playlist's sync priority",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "priority",
						Aliases:  []string{"p"},
						Usage:    "New priority (lower syncs first)",
						Required: true,
					},
				},
				Action: r.PlaylistsMove,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a playlist and its cached cover",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistsRemove,
			},
			{
				Name:  "export",
				Usage: "Export the collection as CSV, Markdown, or text",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: csv, markdown, or text",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// usernameCommand reads or writes the saved Spotify username
func usernameCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "username",
		Usage: "Show or change the saved Spotify username",
		Commands: []*cli.Command{
			{
				Name:   "get",
				Usage:  "Print the saved username",
				Action: r.UsernameGet,
			},
			{
				Name:  "set",
				Usage: "Save a username for future searches",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.UsernameSet,
			},
		},
	}
}

// setupCommand initializes configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration, database, and directories",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand launches the interactive interface
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Manage and sync playlists interactively",
		Action: r.TUI,
	}
}
