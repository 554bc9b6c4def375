package main

import (
	"fmt"
	"os"

	"github.com/mslanden/marketpress/pkg/runtime/terminal"
	"github.com/mslanden/marketpress/pkg/services/config"
	"github.com/mslanden/marketpress/pkg/services/export"
	"github.com/mslanden/marketpress/pkg/services/marketdata"
	"github.com/mslanden/marketpress/pkg/store/duckdb"
	duckdbmarket "github.com/mslanden/marketpress/pkg/store/duckdb/market"
)

func main() {
	regionsPath := envOr("MARKETPRESS_REGIONS", "regions.ini")
	dbPath := envOr("MARKETPRESS_DB", "marketpress.db")

	regions, err := config.NewRegistry(regionsPath)
	if err != nil {
		fail(err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
	if err != nil {
		fail(err)
	}

	marketStore, err := duckdbmarket.NewStore(db)
	if err != nil {
		fail(err)
	}
	provider, err := marketdata.NewStoreProvider(marketStore)
	if err != nil {
		fail(err)
	}

	exporter, err := export.NewExporter(export.DefaultConfig(), provider, regions)
	if err != nil {
		fail(err)
	}

	cli := terminal.NewCLI(terminal.Options{
		Exporter: exporter,
		Regions:  regions,
		Output:   os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fail(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
