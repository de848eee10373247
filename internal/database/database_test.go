package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/casemap-backend-go/internal/database"
)

func memoryConfig() database.Config {
	return database.Config{Path: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}
}

func TestOpenAppliesMigrations(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	require.True(t, cfg.IsMemory())

	db, err := database.Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Equal(t, 2, n)

	for _, table := range []string{"regions", "series_values", "load_runs"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	// Re-running is a no-op
	n, err = database.NewMigrationManager(db).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTransactionRollsBack(t *testing.T) {
	t.Parallel()

	db, err := database.Open(memoryConfig())
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	err = database.Transaction(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO regions (identity, seq, region) VALUES ('X', 0, 'X')"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM regions").Scan(&n))
	assert.Zero(t, n)
}
