package main

import (
	"github.com/spf13/cobra"

	"userstream/internal/output"
	"userstream/internal/stream"
)

func newStreamCmd(cfg *rootConfig) *cobra.Command {
	var chunkSize, limit int
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Stream every row one at a time, fetched in chunks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecords(cmd, cfg, chunkSize, limit, nil)
		},
	}
	f := cmd.Flags()
	f.IntVar(&chunkSize, "chunk-size", stream.DefaultChunkSize, "rows fetched per round trip")
	f.IntVar(&limit, "limit", 0, "stop after this many rows (0 = all)")
	return cmd
}

// runRecords streams the table through pred (nil keeps every row) and
// writes the records in the selected format.
func runRecords(cmd *cobra.Command, cfg *rootConfig, chunkSize, limit int, pred stream.Predicate) error {
	if err := positive("chunk-size", chunkSize); err != nil {
		return err
	}
	if limit < 0 {
		return positive("limit", limit)
	}
	ctx := cmd.Context()
	_, src, cleanup, err := cfg.openSource(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	recs, err := stream.Single(ctx, src, stream.WithChunkSize(chunkSize))
	if err != nil {
		return err
	}
	var it stream.RecordIterator = recs
	if pred != nil {
		it = stream.Filter(it, pred)
	}
	if limit > 0 {
		it = stream.Take(it, limit)
	}
	defer func() { _ = it.Close() }()
	return output.Records(cmd.OutOrStdout(), cfg.outputFormat(cmd), it)
}
