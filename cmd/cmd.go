// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for the catalog database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// serveCommand runs the web server and the background importer.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the library pages and JSON API, and process the import queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:  "no-importer",
				Usage: "Serve without processing the import queue",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the library in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// importCommand submits a directory for import
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Queue a directory for import",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Import into the database directly instead of through the server",
			},
			&cli.BoolFlag{
				Name:  "wait",
				Usage: "With --local, process the queue and report progress until it is empty",
			},
		},
		Action: r.Import,
	}
}

// statusCommand reports the importer's queue
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show what the importer is doing",
		Action: r.Status,
	}
}

// listCommand queries a catalog collection through the JSON API
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List artists, albums, tracks or discs, optionally filtered by key/value pairs",
		ArgsUsage: "artists|albums|tracks|discs [key value]...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, csv, markdown or text",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the listing to a file instead of stdout",
			},
		},
		Action: r.List,
	}
}

// browseCommand returns the top-level TUI command for browsing the library.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui", "ui"},
		Usage:   "Browse artists and albums in an interactive TUI",
		Action:  r.Browse,
	}
}
