package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const ListingsSchema = `
	CREATE TABLE IF NOT EXISTS listings (
		id VARCHAR NOT NULL,
		region VARCHAR NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		status VARCHAR,
		price DOUBLE,
		address VARCHAR,
		beds INTEGER,
		baths DOUBLE,
		area DOUBLE,
		days_on_market INTEGER,
		year_built INTEGER,
		PRIMARY KEY (region, year, month, id)
	);
`
const MonthlyMetricsSchema = `
	CREATE TABLE IF NOT EXISTS monthly_metrics (
		region VARCHAR NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		price_per_sqft DOUBLE,
		average_price DOUBLE,
		total_sales INTEGER,
		median_days_on_market INTEGER,
		average_days DOUBLE,
		median_days DOUBLE,
		PRIMARY KEY (region, year, month)
	);
`

const RegionSyncSchema = `
	CREATE TABLE IF NOT EXISTS region_sync (
		region VARCHAR NOT NULL,
		last_month INTEGER NOT NULL,
		last_year INTEGER NOT NULL,
		updated_at TIMESTAMP,
		PRIMARY KEY (region)
	);
`

var bootQueries = []string{
	ListingsSchema,
	MonthlyMetricsSchema,
	RegionSyncSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
