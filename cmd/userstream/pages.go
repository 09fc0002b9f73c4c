package main

import (
	"github.com/spf13/cobra"

	"userstream/internal/output"
	"userstream/internal/stream"
)

func newPagesCmd(cfg *rootConfig) *cobra.Command {
	var pageSize, maxPages int
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Stream the table as LIMIT/OFFSET pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := positive("page-size", pageSize); err != nil {
				return err
			}
			if maxPages < 0 {
				return positive("max-pages", maxPages)
			}
			ctx := cmd.Context()
			_, src, cleanup, err := cfg.openSource(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			pages, err := stream.Paginate(ctx, src, pageSize)
			if err != nil {
				return err
			}
			var it stream.Iterator[stream.Page] = pages
			if maxPages > 0 {
				it = stream.Take(it, maxPages)
			}
			defer func() { _ = it.Close() }()
			return output.Pages(cmd.OutOrStdout(), cfg.outputFormat(cmd), it)
		},
	}
	f := cmd.Flags()
	f.IntVar(&pageSize, "page-size", 100, "rows per page")
	f.IntVar(&maxPages, "max-pages", 0, "stop after this many pages (0 = all)")
	return cmd
}
