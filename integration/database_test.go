//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestLedgerWithMySQL tests the ledger commands with a MySQL backend.
func TestLedgerWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "ctmeta",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/ctmeta?multiStatements=true", host, port.Port())
	runLedgerScenario(t, []string{
		"CTMETA_LEDGER_BACKEND=mysql",
		"CTMETA_LEDGER_DB_CONNECT=" + connStr,
	})
}

// TestLedgerWithPostgres tests the ledger commands with a PostgreSQL backend.
func TestLedgerWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runLedgerScenario(t, []string{
		"CTMETA_LEDGER_BACKEND=postgresql",
		"CTMETA_LEDGER_DB_CONNECT=" + connStr,
	})
}

// runLedgerScenario clears the ledger, merges twice and checks status, export
// and migrations against the configured backend.
func runLedgerScenario(t *testing.T, env []string) {
	dir := writeFixture(t)

	_, err := runCtmeta(t, dir, env, "ledger", "clear")
	require.NoError(t, err)

	for range 2 {
		_, err = runCtmeta(t, dir, env, "merge")
		require.NoError(t, err)
	}

	out, err := runCtmeta(t, dir, env, "ledger", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: true")
	assert.Contains(t, out, "Schema Version: 2")
	assert.Contains(t, out, "Total Runs: 2")

	out, err = runCtmeta(t, dir, env, "ledger", "export", "--output-file", filepath.Join(dir, "ledger"))
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 6 ingest entries")

	out, err = runCtmeta(t, dir, env, "ledger", "migrate", "--target-version", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "from version 2 to version 1")

	out, err = runCtmeta(t, dir, env, "ledger", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "from version 1 to version 2")
}
