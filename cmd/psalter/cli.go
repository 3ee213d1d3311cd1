package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/psalter/internal/config"
	"github.com/hpungsan/psalter/internal/corpus"
	"github.com/hpungsan/psalter/internal/errors"
	"github.com/hpungsan/psalter/internal/index"
	"github.com/hpungsan/psalter/internal/normalize"
	"github.com/hpungsan/psalter/internal/ops"
	"github.com/hpungsan/psalter/internal/web"
)

// appDeps bundles the shared dependencies behind the CLI commands.
type appDeps struct {
	corpus     *corpus.Corpus
	index      *index.Index
	normalizer normalize.Normalizer
	cfg        *config.Config
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps *appDeps) *cli.App {
	app := &cli.App{
		Name:    "psalter",
		Usage:   "Psalm reference resolver",
		Version: Version,
		Commands: []*cli.Command{
			lookupCmd(deps),
			searchCmd(deps),
			chaptersCmd(deps),
			serveCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// lookupCmd creates the lookup command.
func lookupCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "Resolve psalm references in text (arguments or stdin)",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "normalize", Aliases: []string{"n"}, Usage: "Rewrite loose phrasing into explicit references first"},
		},
		Action: func(c *cli.Context) error {
			prompt := strings.Join(c.Args().Slice(), " ")
			if prompt == "" && stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				prompt = text
			}
			if prompt == "" {
				return outputError(errors.NewInvalidRequest("text is required (arguments or stdin)"))
			}
			if c.Bool("normalize") && deps.normalizer == nil {
				fmt.Fprintln(os.Stderr, "Warning: --normalize requested but no normalizer is configured; skipping normalization")
			}

			output, err := ops.Lookup(c.Context, deps.corpus, deps.normalizer, ops.LookupInput{
				Prompt:    prompt,
				Normalize: c.Bool("normalize"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Keyword search over verse text",
		ArgsUsage: "[keywords...]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultSearchLimit, Usage: "Maximum results to return"},
		},
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")

			output, err := ops.Search(c.Context, deps.index, ops.SearchInput{
				Query: query,
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// chaptersCmd creates the chapters command.
func chaptersCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "chapters",
		Usage: "List available chapters with verse counts",
		Action: func(c *cli.Context) error {
			output, err := ops.Chapters(deps.corpus)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8515, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(deps.corpus, deps.index, deps.normalizer, deps.cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pErr, ok := err.(*errors.PsalterError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
