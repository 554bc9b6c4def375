package market

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mslanden/marketpress/pkg/models/store"
	"github.com/mslanden/marketpress/pkg/store/duckdb"
)

// Store supports both ingestion (Add*) and read (Get*) operations over the
// market tables. Reads return rows in chronological order.
type Store interface {
	AddListings(ctx context.Context, records []store.ListingRecord) error
	AddMonthlyMetrics(ctx context.Context, records []store.MetricRecord) error
	GetListings(ctx context.Context, region string, month, year int) ([]store.ListingRecord, error)
	// GetMetricSeries returns up to months rows ending at (month, year),
	// oldest first.
	GetMetricSeries(ctx context.Context, region string, month, year, months int) ([]store.MetricRecord, error)
}

type marketStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &marketStore{db: db}, nil
}

func (m *marketStore) AddListings(ctx context.Context, records []store.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT OR REPLACE INTO listings (
			id, region, month, year, status, price, address,
			beds, baths, area, days_on_market, year_built
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := m.prepare(ctx, tx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare listings insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			r.ID, r.Region, r.Month, r.Year, r.Status, r.Price, r.Address,
			r.Beds, r.Baths, r.Area, r.DaysOnMarket, r.YearBuilt)
		if err != nil {
			return fmt.Errorf("failed to insert listing %s: %w", r.ID, err)
		}
	}
	return nil
}

func (m *marketStore) AddMonthlyMetrics(ctx context.Context, records []store.MetricRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT OR REPLACE INTO monthly_metrics (
			region, month, year, price_per_sqft, average_price, total_sales,
			median_days_on_market, average_days, median_days
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := m.prepare(ctx, tx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare metrics insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			r.Region, r.Month, r.Year, r.PricePerSqft, r.AveragePrice, r.TotalSales,
			r.MedianDaysOnMarket, r.AverageDaysOnMkt, r.MedianDaysOnMkt)
		if err != nil {
			return fmt.Errorf("failed to insert metrics for %s %d-%d: %w", r.Region, r.Year, r.Month, err)
		}
	}
	return nil
}

func (m *marketStore) GetListings(ctx context.Context, region string, month, year int) ([]store.ListingRecord, error) {
	query := `
		SELECT id, region, month, year, status, price, address,
		       beds, baths, area, days_on_market, year_built
		FROM listings
		WHERE region = ? AND month = ? AND year = ?
		ORDER BY price DESC`

	rows, err := m.db.QueryContext(ctx, query, region, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var records []store.ListingRecord
	for rows.Next() {
		var r store.ListingRecord
		err = rows.Scan(&r.ID, &r.Region, &r.Month, &r.Year, &r.Status, &r.Price, &r.Address,
			&r.Beds, &r.Baths, &r.Area, &r.DaysOnMarket, &r.YearBuilt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (m *marketStore) GetMetricSeries(ctx context.Context, region string, month, year, months int) ([]store.MetricRecord, error) {
	// Months are compared on a single year*12+month ordinal so a window can
	// span a year boundary.
	end := year*12 + (month - 1)
	start := end - months + 1

	query := `
		SELECT region, month, year, price_per_sqft, average_price, total_sales,
		       median_days_on_market, average_days, median_days
		FROM monthly_metrics
		WHERE region = ?
		  AND (year * 12 + month - 1) BETWEEN ? AND ?
		ORDER BY year, month`

	rows, err := m.db.QueryContext(ctx, query, region, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric series: %w", err)
	}
	defer rows.Close()

	var records []store.MetricRecord
	for rows.Next() {
		var r store.MetricRecord
		err = rows.Scan(&r.Region, &r.Month, &r.Year, &r.PricePerSqft, &r.AveragePrice, &r.TotalSales,
			&r.MedianDaysOnMarket, &r.AverageDaysOnMkt, &r.MedianDaysOnMkt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (m *marketStore) prepare(ctx context.Context, tx *sql.Tx, query string) (*sql.Stmt, error) {
	if tx != nil {
		return tx.PrepareContext(ctx, query)
	}
	return m.db.PrepareContext(ctx, query)
}
