package duckdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootstrapsSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO listings (id, region, month, year, status, price) VALUES (?, ?, ?, ?, ?, ?)`,
		"mls-001", "anza", 3, 2024, "active", 425000.0,
	)
	require.NoError(t, err)

	_, err = db.Exec(
		`INSERT INTO monthly_metrics (region, month, year, price_per_sqft) VALUES (?, ?, ?, ?)`,
		"anza", 3, 2024, 236.0,
	)
	require.NoError(t, err)

	_, err = db.Exec(
		`INSERT INTO region_sync (region, last_month, last_year) VALUES (?, ?, ?)`,
		"anza", 3, 2024,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM listings WHERE region = ?", "anza").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTransactionContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetTransaction(ctx))

	dbPath := filepath.Join(t.TempDir(), "tx.db")
	db, err := NewDB(Settings{DbPath: dbPath})
	require.NoError(t, err)
	defer db.Close()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	txCtx := WithTransaction(ctx, tx)
	assert.Equal(t, tx, GetTransaction(txCtx))
	// The parent context stays clean.
	assert.Nil(t, GetTransaction(ctx))
}
