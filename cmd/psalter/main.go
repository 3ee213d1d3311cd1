package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/psalter/internal/config"
	"github.com/hpungsan/psalter/internal/corpus"
	"github.com/hpungsan/psalter/internal/index"
	"github.com/hpungsan/psalter/internal/mcp"
	"github.com/hpungsan/psalter/internal/normalize"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"lookup": true, "search": true, "chapters": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___  ___  ___  _  _____ ___ ___
  | _ \/ __|/   \| ||_   _| __| _ \
  |  _/\__ \| - || |__| | | _||   /
  |_|  |___/|_|_||____|_| |___|_|_\

  Psalm reference resolver

  Usage: psalter <command> [options]
         psalter --help

  MCP server mode requires piped input.`)
}

// newNormalizer builds the normalizer from config. Returns nil when
// normalization is disabled or no API key is available; lookups then run
// without the normalization pass.
func newNormalizer(cfg *config.Config) normalize.Normalizer {
	if cfg.NormalizerDisabled {
		return nil
	}
	apiKey := os.Getenv(cfg.NormalizerAPIKeyEnv)
	if apiKey == "" {
		return nil
	}
	client := normalize.NewClient(apiKey)
	if cfg.NormalizerModel != "" {
		client.Model = cfg.NormalizerModel
	}
	if cfg.NormalizerBaseURL != "" {
		client.BaseURL = cfg.NormalizerBaseURL
	}
	if cfg.NormalizerTimeoutSecs > 0 {
		client.Timeout = time.Duration(cfg.NormalizerTimeoutSecs) * time.Second
	}
	return client
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before loading anything (no deps needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = homeDir
	}

	cfg, err := config.LoadWithRepo(filepath.Join(homeDir, ".psalter"), cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Warn about disabled-tools typos up front
	for _, name := range mcp.ValidateDisabledTools(cfg.DisabledTools) {
		fmt.Fprintf(os.Stderr, "warning: unknown tool in disabled_tools: %q\n", name)
	}

	c, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load corpus: %v\n", err)
		os.Exit(1)
	}

	ix, err := index.Build(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to build search index: %v\n", err)
		os.Exit(1)
	}
	defer ix.Close()

	deps := &appDeps{
		corpus:     c,
		index:      ix,
		normalizer: newNormalizer(cfg),
		cfg:        cfg,
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(deps)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'psalter --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(c, ix, deps.normalizer, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
