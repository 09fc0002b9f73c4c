package main

import (
	"github.com/spf13/cobra"

	"userstream/internal/stream"
)

func newFilterCmd(cfg *rootConfig) *cobra.Command {
	var chunkSize, limit, olderThan int
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Stream only users older than a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecords(cmd, cfg, chunkSize, limit, stream.AgeOver(olderThan))
		},
	}
	f := cmd.Flags()
	f.IntVar(&olderThan, "older-than", 25, "keep rows whose age is strictly greater")
	f.IntVar(&chunkSize, "chunk-size", stream.DefaultChunkSize, "rows fetched per round trip")
	f.IntVar(&limit, "limit", 0, "stop after this many matching rows (0 = all)")
	return cmd
}
