// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file and initialize the local database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// accountCommand handles identity service operations
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "account",
		Aliases: []string{"acct"},
		Usage:   "Account and session operations",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Create a session with email and password",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AccountLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and send a verification email",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Display name"},
				},
				Action: r.AccountRegister,
			},
			{
				Name:   "logout",
				Usage:  "Delete the current session",
				Action: r.AccountLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the current user",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.AccountWhoami,
			},
			{
				Name:  "password",
				Usage: "Change the account password",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "current"},
					&cli.StringArg{Name: "new"},
				},
				Action: r.AccountPassword,
			},
			{
				Name:  "email",
				Usage: "Change the account email",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AccountEmail,
			},
			{
				Name:   "verify",
				Usage:  "Send a verification email and wait for the callback",
				Action: r.AccountVerify,
			},
		},
	}
}

// searchCommand searches the album catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search albums in the catalog",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of results", Value: 30},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
		},
		Action: r.Search,
	}
}

// albumCommand looks up a single album
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Look up an album by artist and name, or by id",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "artist"},
			&cli.StringArg{Name: "name"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "Stable album identifier"},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
			&cli.BoolFlag{Name: "open", Usage: "Open the album page in the browser"},
		},
		Action: r.Album,
	}
}

// artistCommand looks up artist metadata and top albums
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "artist",
		Usage:     "Look up an artist and their top albums",
		Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of top albums", Value: 10},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
		},
		Action: r.Artist,
	}
}

// tagCommand lists top albums for a genre tag
func tagCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tag",
		Usage:     "List top albums for a genre tag",
		Arguments: []cli.Argument{&cli.StringArg{Name: "tag"}},
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of results", Value: 30},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
		},
		Action: r.Tag,
	}
}

// listCommand handles saved-album list operations
func listCommand(r *Runner) *cli.Command {
	albumArgs := []cli.Argument{
		&cli.StringArg{Name: "artist"},
		&cli.StringArg{Name: "name"},
	}
	idFlag := &cli.StringFlag{Name: "id", Usage: "Stable album identifier"}

	return &cli.Command{
		Name:  "list",
		Usage: "Saved album list operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the saved album list",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.ListShow,
			},
			{
				Name:      "add",
				Usage:     "Add an album to the list",
				Arguments: albumArgs,
				Flags:     []cli.Flag{idFlag},
				Action:    r.ListAdd,
			},
			{
				Name:      "listen",
				Usage:     "Mark an album listened, adding it if needed",
				Arguments: albumArgs,
				Flags:     []cli.Flag{idFlag},
				Action:    r.ListListen,
			},
			{
				Name:      "unlisten",
				Usage:     "Clear an album's listened flag",
				Arguments: albumArgs,
				Flags:     []cli.Flag{idFlag},
				Action:    r.ListUnlisten,
			},
			{
				Name:      "remove",
				Usage:     "Remove an album from the list",
				Arguments: albumArgs,
				Flags:     []cli.Flag{idFlag},
				Action:    r.ListRemove,
			},
			{
				Name:   "sync",
				Usage:  "Refetch the full list from the document store",
				Action: r.ListSync,
			},
			{
				Name:   "dedupe",
				Usage:  "Remove duplicate records from the list",
				Action: r.ListDedupe,
			},
			{
				Name:  "export",
				Usage: "Export the list to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path", Value: "albums.csv"},
					&cli.StringFlag{Name: "format", Usage: "Export format: csv, markdown, txt"},
				},
				Action: r.ListExport,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}
