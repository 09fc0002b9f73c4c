//go:build integration

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"userstream/internal/config"
	"userstream/internal/seed"
	"userstream/internal/source"
	"userstream/internal/stream"
)

const (
	rootPassword = "secret"
	testDB       = "ALX_prodev"
)

var (
	containerHost string
	containerPort int
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env:          map[string]string{"MYSQL_ROOT_PASSWORD": rootPassword},
		// the entrypoint runs a temporary server first; only the final one
		// listens on 3306
		WaitingFor: wait.ForAll(
			wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(3*time.Minute),
			wait.ForListeningPort("3306/tcp").WithStartupTimeout(3*time.Minute),
		),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if ctr != nil {
			_ = ctr.Terminate(ctx)
		}
		_, _ = fmt.Fprintf(os.Stderr, "start mysql container: %v\n", err)
		os.Exit(1)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		_, _ = fmt.Fprintf(os.Stderr, "container host: %v\n", err)
		os.Exit(1)
	}

	port, err := ctr.MappedPort(ctx, "3306")
	if err != nil {
		_ = ctr.Terminate(ctx)
		_, _ = fmt.Fprintf(os.Stderr, "container port: %v\n", err)
		os.Exit(1)
	}

	containerHost = host
	containerPort = port.Int()

	if err := createDatabase(ctx); err != nil {
		_ = ctr.Terminate(ctx)
		_, _ = fmt.Fprintf(os.Stderr, "create database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = ctr.Terminate(ctx)
	os.Exit(code)
}

// defaultCfg returns a Config pointing at the shared test container.
func defaultCfg() config.Config {
	return config.Config{
		Host:     containerHost,
		Port:     containerPort,
		User:     "root",
		Password: rootPassword,
		Database: testDB,
	}
}

func createDatabase(ctx context.Context) error {
	server, err := source.ConnectServer(ctx, defaultCfg())
	if err != nil {
		return err
	}
	defer func() { _ = server.Close() }()
	return seed.EnsureDatabase(ctx, server, testDB)
}

// openDB connects to the test database and closes the handle on cleanup.
func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := source.Connect(context.Background(), defaultCfg())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// setupTable creates table, loads recs into it and registers a drop.
// Cleanup runs before openDB's close since t.Cleanup is LIFO.
func setupTable(t *testing.T, db *sql.DB, table string, recs []stream.Record) {
	t.Helper()
	ctx := context.Background()
	if err := seed.EnsureTable(ctx, db, table); err != nil {
		t.Fatalf("setup table %s: %v", table, err)
	}
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DROP TABLE IF EXISTS `"+table+"`")
	})
	res, err := seed.Insert(ctx, db, table, stream.Slice(recs), seed.DefaultBatchSize)
	if err != nil {
		t.Fatalf("seed %s: %v", table, err)
	}
	if res.Inserted != int64(len(recs)) {
		t.Fatalf("seed %s: inserted %d, want %d", table, res.Inserted, len(recs))
	}
}

// users builds records with ascending ids and the given ages.
func users(ages ...int) []stream.Record {
	recs := make([]stream.Record, len(ages))
	for i, a := range ages {
		recs[i] = stream.Record{
			UserID: fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1),
			Name:   fmt.Sprintf("user %d", i+1),
			Email:  fmt.Sprintf("user%d@example.com", i+1),
			Age:    a,
		}
	}
	return recs
}

func newSource(t *testing.T, db *sql.DB, table string) *source.SQL {
	t.Helper()
	src, err := source.New(db, source.WithTable(table))
	if err != nil {
		t.Fatal(err)
	}
	return src
}
