package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/artic-selector/internal/browser"
	"github.com/Sternrassler/artic-selector/pkg/pagecache"
	"github.com/Sternrassler/artic-selector/pkg/pagination"
	"github.com/Sternrassler/artic-selector/pkg/selection"
)

func newBrowseCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive artwork table (default)",
		Example: `  # Browse with defaults
  artic-selector browse

  # Larger pages, logs to a file
  artic-selector browse --page-size 25 --log-file selector.log`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, *configPath)
		},
	}
}

func runBrowse(cmd *cobra.Command, configPath string) error {
	ctx := cmd.Context()

	app, err := setup(ctx, cmd, configPath, io.Discard)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.cfg.Metrics.Addr != "" {
		stop := startMetricsServer(app.cfg.Metrics.Addr, app.redis, app.logger)
		defer stop()
	}

	pcfg := pagination.DefaultConfig()
	pcfg.PageSize = app.client.PageSize()
	ctrl := pagination.NewController(app.client, pagecache.New(), pcfg)
	store := selection.NewStore()

	p := tea.NewProgram(browser.New(ctx, ctrl, store), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}

	app.logger.Info().Int("selected", store.Count()).Msg("Browser closed")
	printSelection(cmd.OutOrStdout(), store.IDs())
	return nil
}

func printSelection(w io.Writer, ids []int) {
	if len(ids) == 0 {
		fmt.Fprintln(w, "No artworks selected")
		return
	}
	fmt.Fprintf(w, "Selected %d artworks: %s\n", len(ids),
		strings.Join(lo.Map(ids, func(id int, _ int) string { return fmt.Sprint(id) }), ", "))
}
