package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/artic-selector/internal/browser"
	"github.com/Sternrassler/artic-selector/pkg/pagination"
	"github.com/Sternrassler/artic-selector/pkg/selection"
)

func newPageCmd(configPath *string) *cobra.Command {
	var first string

	cmd := &cobra.Command{
		Use:   "page [number]",
		Short: "Print one page of artworks without the interactive table",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # First page
  artic-selector page

  # Page 3, marking the first five rows as selected
  artic-selector page 3 --first 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 1 {
				var err error
				if n, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("page number %q: %w", args[0], err)
				}
			}

			app, err := setup(cmd.Context(), cmd, *configPath, os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()

			pcfg := pagination.DefaultConfig()
			pcfg.PageSize = app.client.PageSize()
			ctrl := pagination.NewController(app.client, nil, pcfg)
			if err := ctrl.Load(cmd.Context(), n); err != nil {
				return err
			}

			store := selection.NewStore()
			store.BulkSelectInput(ctrl.Page().Items, first)

			return writePage(cmd.OutOrStdout(), ctrl, store)
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "Mark the first N rows of the page as selected")
	return cmd
}

func writePage(out io.Writer, ctrl *pagination.Controller, store *selection.Store) error {
	if _, err := fmt.Fprintln(out, browser.PlainTable(ctrl.Page().Items, store.Contains)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%s  ·  Selected: %d\n", ctrl.Window(), store.Count())
	return err
}
