package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "artic-selector",
		Short: "Browse the Art Institute of Chicago collection and select artworks",
		Long: `artic-selector pages through the Art Institute of Chicago artworks API
in a terminal table. Rows can be selected one at a time, a whole page at a
time, or as "the first N rows"; the selection is kept while moving between
pages and printed on exit.

Settings come from ~/.config/artic-selector/config.toml, ARTIC_* environment
variables (a .env file is loaded if present), and the flags below.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, configPath)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (TOML)")
	flags.String("base-url", "", "Artworks API base URL")
	flags.Int("page-size", 0, "Rows per page (1-100)")
	flags.String("user-agent", "", "User-Agent sent to the API")
	flags.Duration("timeout", 0, "Per-request timeout")
	flags.String("redis-url", "", "Redis URL for response revalidation and rate limit tracking")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Bool("log-pretty", false, "Human-readable log output")
	flags.String("log-file", "", "Write logs to this file (discarded otherwise while browsing)")
	flags.String("metrics-addr", "", "Serve /metrics, /health and /ready on this address")

	cmd.AddCommand(newBrowseCmd(&configPath))
	cmd.AddCommand(newPageCmd(&configPath))

	return cmd
}
