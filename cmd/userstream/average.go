package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"userstream/internal/stream"
)

func newAverageCmd(cfg *rootConfig) *cobra.Command {
	var (
		field     string
		chunkSize int
	)
	cmd := &cobra.Command{
		Use:   "average",
		Short: "Compute the mean of a numeric column in one streaming pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := positive("chunk-size", chunkSize); err != nil {
				return err
			}
			if _, ok := (stream.Record{}).Number(field); !ok {
				return usageErr(fmt.Errorf("%w: column %q is not numeric", stream.ErrInvalidArgument, field))
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
			avg, n, err := stream.Mean(recs, field)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatAverage(field, avg, n))
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&field, "field", "age", "numeric column to average")
	f.IntVar(&chunkSize, "chunk-size", stream.DefaultChunkSize, "rows fetched per round trip")
	return cmd
}

// formatAverage prints 0 bare for an empty table, two decimals otherwise.
func formatAverage(field string, avg float64, n int) string {
	if n == 0 {
		return fmt.Sprintf("Average %s of users: 0", field)
	}
	return fmt.Sprintf("Average %s of users: %.2f", field, avg)
}
