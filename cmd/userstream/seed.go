package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"userstream/internal/seed"
)

func newSeedCmd(cfg *rootConfig) *cobra.Command {
	var (
		csvPath   string
		batchSize int
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the database and table if missing and load rows from CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := positive("batch-size", batchSize); err != nil {
				return err
			}
			return runSeed(cmd, cfg, csvPath, batchSize)
		},
	}
	f := cmd.Flags()
	f.StringVar(&csvPath, "csv", "user_data.csv", "CSV file with user_id,name,email,age columns")
	f.IntVar(&batchSize, "batch-size", seed.DefaultBatchSize, "rows per INSERT statement")
	return cmd
}

func runSeed(cmd *cobra.Command, cfg *rootConfig, csvPath string, batchSize int) error {
	ctx := cmd.Context()

	fh, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer func() { _ = fh.Close() }()
	rows, err := seed.ReadCSV(fh)
	if err != nil {
		return err
	}

	server, closeServer, err := cfg.connectServer(ctx)
	if err != nil {
		return err
	}
	err = seed.EnsureDatabase(ctx, server, cfg.db.Database)
	closeServer()
	if err != nil {
		return err
	}
	cfg.log.WithField("database", cfg.db.Database).Debug("database ready")

	db, cleanup, err := cfg.connect(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := seed.EnsureTable(ctx, db, cfg.table); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Table %s ready\n", cfg.table)

	res, err := seed.Insert(ctx, db, cfg.table, rows, batchSize)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d new rows (%d duplicates skipped).\n", res.Inserted, res.Skipped)
	return err
}
