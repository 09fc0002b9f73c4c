package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"userstream/internal/config"
	"userstream/internal/output"
	"userstream/internal/source"
	"userstream/internal/stream"
)

// exit codes
const (
	exitOK     = 0
	exitSource = 1
	exitUsage  = 2
	exitINT    = 130
)

type rootConfig struct {
	db           config.Config
	table        string
	passwordFile string
	envFiles     []string
	timeout      time.Duration
	format       string
	verbose      bool

	log *logrus.Logger
}

// envFlags maps each environment variable to the flag that overrides it.
var envFlags = map[string]string{
	config.EnvHost:     "host",
	config.EnvPort:     "port",
	config.EnvUser:     "user",
	config.EnvPassword: "password",
	config.EnvDatabase: "db",
}

func newRootCmd() *cobra.Command {
	cfg := &rootConfig{log: logrus.New()}
	return buildRootCmd(cfg)
}

func buildRootCmd(cfg *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "userstream",
		Short:         "Stream user_data rows from MySQL without loading them all",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.setupLogger(cmd)
			if err := cfg.loadEnvFiles(); err != nil {
				return err
			}
			if err := cfg.resolveEnvVars(cmd.Flags().Changed); err != nil {
				return usageErr(err)
			}
			if err := cfg.resolvePassword(); err != nil {
				return err
			}
			return cfg.validate()
		},
	}
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.AddCommand(newStreamCmd(cfg))
	cmd.AddCommand(newPagesCmd(cfg))
	cmd.AddCommand(newFilterCmd(cfg))
	cmd.AddCommand(newAverageCmd(cfg))
	cmd.AddCommand(newSeedCmd(cfg))
	cmd.AddCommand(newStatusCmd(cfg))

	def := config.Default()
	f := cmd.PersistentFlags()
	f.StringVarP(&cfg.db.Host, "host", "H", def.Host, "MySQL host (or MYSQL_HOST env)")
	f.IntVarP(&cfg.db.Port, "port", "P", def.Port, "MySQL port (or MYSQL_PORT env)")
	f.StringVarP(&cfg.db.User, "user", "u", def.User, "MySQL user (or MYSQL_USER env)")
	f.StringVarP(&cfg.db.Password, "password", "p", "", "MySQL password (or MYSQL_PASSWORD env)")
	f.StringVar(&cfg.passwordFile, "password-file", "", "read password from file")
	f.StringVarP(&cfg.db.Database, "db", "d", def.Database, "database name (or MYSQL_DATABASE env)")
	f.StringVar(&cfg.table, "table", source.DefaultTable, "table to read")
	f.StringSliceVar(&cfg.envFiles, "env-file", []string{".env"}, "dotenv files to load; missing files are skipped")
	f.DurationVarP(&cfg.timeout, "timeout", "t", 30*time.Second, "connection timeout")
	f.StringVarP(&cfg.format, "format", "f", "", "output format: json, jsonl, csv, table (default: table on TTY, jsonl when piped)")
	f.BoolVar(&cfg.verbose, "verbose", false, "log queries and timing to stderr")

	return cmd
}

// usageError marks errors that map to exitUsage.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErr(err error) error { return &usageError{err: err} }

// exitCode maps an error to the appropriate process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) || errors.Is(err, stream.ErrInvalidArgument) {
		return exitUsage
	}
	return exitSource
}

func (c *rootConfig) setupLogger(cmd *cobra.Command) {
	c.log.SetOutput(cmd.ErrOrStderr())
	c.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	c.log.SetLevel(logrus.WarnLevel)
	if c.verbose {
		c.log.SetLevel(logrus.DebugLevel)
	}
}

func (c *rootConfig) loadEnvFiles() error {
	loaded, err := config.LoadEnvFiles(c.envFiles...)
	for _, p := range loaded {
		c.log.WithField("file", p).Debug("loaded environment file")
	}
	return err
}

// resolveEnvVars applies env var values for flags not explicitly set via CLI.
func (c *rootConfig) resolveEnvVars(changed func(string) bool) error {
	return c.db.ApplyEnv(os.LookupEnv, func(key string) bool {
		return changed(envFlags[key])
	})
}

// resolvePassword loads the password from --password-file if set.
func (c *rootConfig) resolvePassword() error {
	if c.passwordFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.passwordFile)
	if err != nil {
		return fmt.Errorf("reading password file: %w", err)
	}
	c.db.Password = strings.TrimSpace(string(data))
	return nil
}

func (c *rootConfig) validate() error {
	if err := c.db.Validate(); err != nil {
		return usageErr(err)
	}
	if c.format != "" && !slices.Contains(output.Formats, c.format) {
		return usageErr(fmt.Errorf("unknown format %q (want one of %s)", c.format, strings.Join(output.Formats, ", ")))
	}
	return nil
}

// connect opens the database handle, bounded by the connection timeout.
// The returned cleanup func must be called to close the handle.
func (c *rootConfig) connect(ctx context.Context) (db *sql.DB, cleanup func(), err error) {
	return c.dial(ctx, source.Connect)
}

// connectServer is connect without selecting the configured database.
func (c *rootConfig) connectServer(ctx context.Context) (db *sql.DB, cleanup func(), err error) {
	return c.dial(ctx, source.ConnectServer)
}

func (c *rootConfig) dial(ctx context.Context, open func(context.Context, config.Config) (*sql.DB, error)) (*sql.DB, func(), error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	c.log.WithField("config", c.db.String()).Debug("connecting")
	db, err := open(ctx, c.db)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

// openSource connects and returns the row source for the configured table,
// with query logging attached.
func (c *rootConfig) openSource(ctx context.Context) (*source.SQL, stream.Source, func(), error) {
	db, cleanup, err := c.connect(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	sqlSrc, err := source.New(db, source.WithTable(c.table))
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return sqlSrc, source.Logged(sqlSrc, c.log), cleanup, nil
}

// outputFormat resolves --format against the command's stdout.
func (c *rootConfig) outputFormat(cmd *cobra.Command) string {
	return output.DetectFormat(cmd.OutOrStdout(), c.format)
}

// positive rejects non-positive flag values before anything is dialed.
func positive(flag string, n int) error {
	if n <= 0 {
		return usageErr(fmt.Errorf("%w: --%s must be positive, got %d", stream.ErrInvalidArgument, flag, n))
	}
	return nil
}
