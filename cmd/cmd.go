// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// jsonFlags are shared by every read command that can emit raw output.
func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

// pageFlags select a page of a remote listing.
func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page number",
			Value: 1,
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Items per page",
		},
	}
}

// authCommand handles account and credential operations.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Account and credential operations",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in and store the bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored credential",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Validate the stored credential and print the account",
				Flags:  jsonFlags(),
				Action: r.AuthWhoami,
			},
			{
				Name:   "status",
				Usage:  "Report session state",
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Import a bearer token from a browser cURL capture",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to file containing the cURL command",
					},
				},
				Action: r.AuthImport,
			},
		},
	}
}

// feedCommand handles the personalized feed and content interactions.
func feedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "feed",
		Aliases: []string{"f"},
		Usage:   "Personalized feed and content interactions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print a page of the feed",
				Flags: append(append(pageFlags(), jsonFlags()...),
					&cli.FloatFlag{
						Name:  "min-relevance",
						Usage: "Relevance floor (0-1)",
					},
				),
				Action: r.FeedList,
			},
			{
				Name:  "view",
				Usage: "Show one content record and mark it viewed",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags:  jsonFlags(),
				Action: r.FeedView,
			},
			{
				Name:  "like",
				Usage: "Like a content record",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "undo",
						Usage: "Remove the like instead",
					},
				},
				Action: r.FeedLike,
			},
			{
				Name:  "save",
				Usage: "Save a content record for later",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "undo",
						Usage: "Remove the save instead",
					},
				},
				Action: r.FeedSave,
			},
			{
				Name:  "dismiss",
				Usage: "Hide a content record from future feed pages",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.FeedDismiss,
			},
			{
				Name:  "export",
				Usage: "Export listings to disk in one or more formats",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "listing",
						Usage: "Listings to export (feed, saved)",
					},
					&cli.StringSliceFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export formats (json, csv, markdown, txt)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Pages to pull per listing",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Items per page",
					},
				},
				Action: r.FeedExport,
			},
		},
	}
}

// savedCommand handles the saved-content listing.
func savedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "Saved content",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Print a page of saved content",
				Flags:  append(pageFlags(), jsonFlags()...),
				Action: r.SavedList,
			},
		},
	}
}

// searchCommand runs keyword search over the user's content.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search content by keyword",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags:  append(pageFlags(), jsonFlags()...),
		Action: r.SearchContent,
	}
}

// profileCommand handles the account profile, stats and preferences.
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Account profile and preferences",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the profile",
				Flags:  jsonFlags(),
				Action: r.ProfileShow,
			},
			{
				Name:   "stats",
				Usage:  "Print account activity statistics",
				Flags:  jsonFlags(),
				Action: r.ProfileStats,
			},
			{
				Name:  "prefs",
				Usage: "Update feed preferences",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "frequency",
						Usage: "Feed frequency (daily, weekly, realtime)",
					},
					&cli.IntFlag{
						Name:  "max-per-day",
						Usage: "Maximum items per day",
					},
					&cli.FloatFlag{
						Name:  "threshold",
						Usage: "Relevance threshold (0-1)",
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Content language code",
					},
					&cli.BoolFlag{
						Name:  "email-notifications",
						Usage: "Enable email notifications",
					},
				},
				Action: r.PrefsSet,
			},
		},
	}
}

// sourcesCommand handles followed YouTube channels.
func sourcesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "Followed YouTube channels",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Print followed channels",
				Flags:  jsonFlags(),
				Action: r.SourcesList,
			},
			{
				Name:  "add",
				Usage: "Follow a channel",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "channel-id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Channel title",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Channel URL",
					},
				},
				Action: r.SourcesAdd,
			},
			{
				Name:  "remove",
				Usage: "Unfollow a channel",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "channel-id",
					},
				},
				Action: r.SourcesRemove,
			},
		},
	}
}

// interestsCommand handles the interest tree driving relevance scoring.
func interestsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "interests",
		Usage: "Interest categories driving relevance scoring",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the interest tree",
				Flags:  jsonFlags(),
				Action: r.InterestsShow,
			},
			{
				Name:  "set",
				Usage: "Set or remove one interest category (use Parent/Sub for a subcategory)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "category",
					},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "keyword",
						Aliases: []string{"k"},
						Usage:   "Keyword for the category (repeatable)",
					},
					&cli.IntFlag{
						Name:  "priority",
						Usage: "Category priority",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "remove",
						Usage: "Remove the category instead",
					},
				},
				Action: r.InterestsSet,
			},
		},
	}
}

// youtubeCommand handles the external account connection.
func youtubeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "youtube",
		Aliases: []string{"yt"},
		Usage:   "YouTube account connection",
		Commands: []*cli.Command{
			{
				Name:   "connect",
				Usage:  "Link a YouTube account via OAuth",
				Action: r.YouTubeConnect,
			},
			{
				Name:   "status",
				Usage:  "Report connection state",
				Flags:  jsonFlags(),
				Action: r.YouTubeStatus,
			},
			{
				Name:   "sync",
				Usage:  "Import subscriptions as sources",
				Action: r.YouTubeSync,
			},
			{
				Name:   "disconnect",
				Usage:  "Unlink the YouTube account",
				Action: r.YouTubeDisconnect,
			},
		},
	}
}

// adminCommand handles content pipeline operations.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Content pipeline operations",
		Commands: []*cli.Command{
			{
				Name:   "processing",
				Usage:  "Print pipeline status",
				Flags:  jsonFlags(),
				Action: r.AdminProcessing,
			},
			{
				Name:  "trigger",
				Usage: "Kick off a processing run",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Poll until the pipeline drains",
					},
					&cli.IntFlag{
						Name:  "poll-secs",
						Usage: "Polling interval in seconds",
					},
					&cli.IntFlag{
						Name:  "timeout-secs",
						Usage: "Wait timeout in seconds",
					},
				},
				Action: r.AdminTrigger,
			},
			{
				Name:  "diagnostics",
				Usage: "Dump backend diagnostics as JSON",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.AdminDiagnostics,
			},
		},
	}
}

// localCommand handles the offline content database.
func localCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "local",
		Usage: "Offline content database",
		Commands: []*cli.Command{
			{
				Name:  "setup",
				Usage: "Initialize config and database, run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.LocalSetup,
			},
			{
				Name:  "refresh",
				Usage: "Pull feed and saved listings into the local database",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Pages to pull per listing",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Items per page",
					},
				},
				Action: r.LocalRefresh,
			},
			{
				Name:  "list",
				Usage: "Print cached content",
				Flags: append(jsonFlags(),
					&cli.BoolFlag{
						Name:  "saved",
						Usage: "Only saved content",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Filter by source (youtube, rss, web)",
					},
					&cli.FloatFlag{
						Name:  "min-relevance",
						Usage: "Relevance floor (0-1)",
					},
				),
				Action: r.LocalList,
			},
			{
				Name:  "export",
				Usage: "Write cached content to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.LocalExport,
			},
		},
	}
}

// serveCommand runs the static dashboard server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the dashboard bundle",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
			},
			&cli.StringFlag{
				Name:  "dist",
				Usage: "Path to the built bundle",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the interactive terminal dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Interactive terminal dashboard",
		Action:  r.TUI,
	}
}
