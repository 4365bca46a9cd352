package testhelpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:16-alpine"
	gatewayUser   = "gateway"
	gatewayPass   = "gateway"
	gatewayDB     = "connector_gateway"
)

// gatewayTables are truncated between tests, children before parents.
var gatewayTables = []string{"refunds", "disputes", "merchant_connector_accounts"}

// TestDatabase is a migrated gateway schema in a throwaway postgres container.
type TestDatabase struct {
	Container testcontainers.Container
	DB        *postgres.DB
	Config    *config.DatabaseConfig
}

func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	ctx := context.Background()

	container, cfg := startPostgres(ctx, t)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	db, err := postgres.Connect(ctx, cfg, logger)
	require.NoError(t, err)

	migrations, err := migrationFiles()
	require.NoError(t, err)
	for _, path := range migrations {
		require.NoError(t, applyMigration(ctx, db, path))
	}

	return &TestDatabase{Container: container, DB: db, Config: cfg}
}

// startPostgres runs the container and returns settings that point at it,
// sized by the same pool defaults the gateway loads.
func startPostgres(ctx context.Context, t *testing.T) (testcontainers.Container, *config.DatabaseConfig) {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     gatewayUser,
				"POSTGRES_PASSWORD": gatewayPass,
				"POSTGRES_DB":       gatewayDB,
			},
			// postgres logs readiness once for the init server and again for the real one.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := (&config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     gatewayUser,
		Password: gatewayPass,
		Name:     gatewayDB,
		SSLMode:  "disable",
	}).WithDefaultPool()

	return container, cfg
}

func (td *TestDatabase) Cleanup(t *testing.T) {
	td.DB.Close()
	require.NoError(t, td.Container.Terminate(context.Background()))
}

func (td *TestDatabase) CleanTables(t *testing.T) {
	for _, table := range gatewayTables {
		_, err := td.DB.Pool.Exec(context.Background(), "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE")
		require.NoError(t, err, "truncate %s", table)
	}
}

// migrationFiles lists db/migrations/*.up.sql in apply order.
func migrationFiles() ([]string, error) {
	_, here, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(here), "..", "..", "..", "..", "db", "migrations")

	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("list migrations in %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func applyMigration(ctx context.Context, db *postgres.DB, path string) error {
	sql, err := os.ReadFile(path) //nolint:gosec // test helper, controlled path
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filepath.Base(path), err)
	}
	if _, err := db.Pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filepath.Base(path), err)
	}
	return nil
}
