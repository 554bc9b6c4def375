package market

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mslanden/marketpress/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	mock  sqlmock.Sqlmock
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, mock: mock, store: s}
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

func TestMarketStore_AddListings(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("empty batch is a no-op", func(t *testing.T) {
		err := f.store.AddListings(ctx, nil)
		assert.NoError(t, err)
	})

	t.Run("inserts one row per record", func(t *testing.T) {
		records := []store.ListingRecord{
			{ID: "mls-1", Region: "anza", Month: 3, Year: 2024, Status: "active", Price: 425000},
			{ID: "mls-2", Region: "anza", Month: 3, Year: 2024, Status: "closed", Price: 389000},
		}

		prep := f.mock.ExpectPrepare(`INSERT OR REPLACE INTO listings`)
		for range records {
			prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
		}

		err := f.store.AddListings(ctx, records)
		assert.NoError(t, err)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}

func TestMarketStore_GetListings(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	cols := []string{
		"id", "region", "month", "year", "status", "price", "address",
		"beds", "baths", "area", "days_on_market", "year_built",
	}
	f.mock.ExpectQuery(`SELECT .+ FROM listings`).
		WithArgs("anza", 3, 2024).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("mls-1", "anza", 3, 2024, "active", 425000.0, "1 Trail Rd", 3, 2.0, 1800.0, 41, 1998).
			AddRow("mls-2", "anza", 3, 2024, "closed", 389000.0, "9 Sage Ln", 2, 1.5, 1400.0, 18, 2004))

	records, err := f.store.GetListings(ctx, "anza", 3, 2024)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "mls-1", records[0].ID)
	assert.Equal(t, "closed", records[1].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestMarketStore_GetMetricSeries(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	cols := []string{
		"region", "month", "year", "price_per_sqft", "average_price", "total_sales",
		"median_days_on_market", "average_days", "median_days",
	}

	t.Run("window spanning a year boundary", func(t *testing.T) {
		// 3 months ending Jan 2024 -> ordinals for Nov 2023 .. Jan 2024.
		f.mock.ExpectQuery(`SELECT .+ FROM monthly_metrics`).
			WithArgs("anza", 2024*12+0-2, 2024*12+0).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("anza", 11, 2023, 228.0, 401000.0, 4, 35, 44.0, 38.0).
				AddRow("anza", 12, 2023, 231.0, 398000.0, 3, 33, 47.0, 40.0).
				AddRow("anza", 1, 2024, 236.5, 412500.0, 5, 31, 42.0, 36.0))

		records, err := f.store.GetMetricSeries(ctx, "anza", 1, 2024, 3)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, 2023, records[0].Year)
		assert.Equal(t, 1, records[2].Month)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("no rows yields empty slice", func(t *testing.T) {
		f.mock.ExpectQuery(`SELECT .+ FROM monthly_metrics`).
			WillReturnRows(sqlmock.NewRows(cols))

		records, err := f.store.GetMetricSeries(ctx, "aguanga", 3, 2024, 6)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
