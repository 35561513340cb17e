package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/aussiebroadwan/onbd/internal/onbd/store/drivers/postgres"
	"github.com/aussiebroadwan/onbd/internal/onbd/store/storetest"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway PostgreSQL container and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "onbd",
			"POSTGRES_PASSWORD": "onbd",
			"POSTGRES_DB":       "onbd",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://onbd:onbd@%s:%s/onbd?sslmode=disable", host, port.Port())
}

func TestPostgresStore(t *testing.T) {
	dsn := startPostgres(t)

	// Each subtest gets a clean schema on the shared container.
	storetest.Run(t, func(t *testing.T) store.Store {
		st, err := postgres.NewStore(dsn)
		require.NoError(t, err)
		require.NoError(t, st.ApplyMigrations())
		t.Cleanup(func() { _ = st.Close() })

		require.NoError(t, truncateAll(st))
		return st
	})
}

func truncateAll(st *postgres.Store) error {
	return st.WithTx(context.Background(), func(tx store.Tx) error {
		return postgres.TruncateForTest(tx)
	})
}
