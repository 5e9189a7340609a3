//go:build integration
// +build integration

package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "irarb",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=irarb sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "irarb")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/ingestion → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func TestIngestion_EndToEnd_LoadDirectory(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	tdir := t.TempDir()
	content := "ticker;underlier;maturity_date;contract_size\n" +
		"GGAL/MAY23;GGAL;2023-05-30;100\n" +
		"DLR/MAY23;DLR;2023-05-31;1000\n"
	if err := os.WriteFile(filepath.Join(tdir, "instruments.csv"), []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := LoadDirectory(ctx, tdir, db, 2)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 instruments, got %d", n)
	}

	var label string
	if err := db.QueryRow("SELECT maturity_label FROM instruments WHERE ticker='DLR/MAY23'").Scan(&label); err != nil {
		t.Fatalf("query instrument: %v", err)
	}
	if label != "MAY23" {
		t.Fatalf("expected label MAY23, got %q", label)
	}

	// a second load replaces the catalog
	if err := os.WriteFile(filepath.Join(tdir, "instruments.csv"), []byte("ticker;underlier;maturity_date;contract_size\nPAMP/JUN23;PAMP;2023-06-30;100\n"), 0o600); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}
	if _, err := LoadDirectory(ctx, tdir, db, 1); err != nil {
		t.Fatalf("reload: %v", err)
	}
	var cnt int
	if err := db.QueryRow("SELECT COUNT(*) FROM instruments").Scan(&cnt); err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected 1 instrument after reload, got %d", cnt)
	}
}
