package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"userstream/internal/source"
)

func newStatusCmd(cfg *rootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server version and row count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

// statusInfo is the JSON output of the status command.
type statusInfo struct {
	Host          string `json:"host"`
	Port          int    `json:"port"`
	Database      string `json:"database"`
	Table         string `json:"table"`
	ServerVersion string `json:"server_version"`
	Rows          int    `json:"rows"`
	Status        string `json:"status"`
}

func runStatus(ctx context.Context, cfg *rootConfig, w io.Writer) error {
	sqlSrc, _, cleanup, err := cfg.openSource(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	db := sqlSrc.DB()
	ver, err := source.ServerVersion(ctx, db)
	if err != nil {
		return err
	}
	n, err := sqlSrc.Count(ctx)
	if err != nil {
		return err
	}

	si := statusInfo{
		Host:          cfg.db.Host,
		Port:          cfg.db.Port,
		Database:      cfg.db.Database,
		Table:         cfg.table,
		ServerVersion: ver,
		Rows:          n,
		Status:        "ok",
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(si)
}
