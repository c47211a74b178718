// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

// serveCommand runs the HTTP gateway
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the todo HTTP gateway",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the example configuration file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the resolved configuration as TOML",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ConfigShow,
			},
		},
	}
}

// todosCommand calls a running gateway
func todosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "todos",
		Aliases: []string{"todo", "t"},
		Usage:   "Manage todos on a running gateway",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List todos, optionally filtered by title",
				Flags: append([]cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Case-insensitive title filter",
					},
					&cli.BoolFlag{
						Name:  "legacy",
						Usage: "Use the /api/todos/search?title= endpoint",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: text, markdown or csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the export to a file instead of stdout",
					},
				}, jsonFlags()...),
				Action: r.TodosList,
			},
			{
				Name:      "add",
				Usage:     "Create a todo",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags:     append([]cli.Flag{configFlag()}, jsonFlags()...),
				Action:    r.TodosAdd,
			},
			{
				Name:      "update",
				Usage:     "Change a todo's title or completed state",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append([]cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "New title",
					},
					&cli.BoolFlag{
						Name:  "completed",
						Usage: "Completed state (--completed=false to reopen)",
					},
				}, jsonFlags()...),
				Action: r.TodosUpdate,
			},
			{
				Name:      "toggle",
				Usage:     "Flip a todo's completed state",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     append([]cli.Flag{configFlag()}, jsonFlags()...),
				Action:    r.TodosToggle,
			},
			{
				Name:      "rm",
				Aliases:   []string{"delete"},
				Usage:     "Delete a todo",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{configFlag()},
				Action:    r.TodosDelete,
			},
		},
	}
}
