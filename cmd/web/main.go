package main

import (
	"fmt"
	"net"
	"os"

	"github.com/mslanden/marketpress/pkg/server"
	"github.com/mslanden/marketpress/pkg/services/config"
	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/mslanden/marketpress/pkg/services/export"
	"github.com/mslanden/marketpress/pkg/services/ingest"
	"github.com/mslanden/marketpress/pkg/services/marketdata"
	"github.com/mslanden/marketpress/pkg/store/archive"
	"github.com/mslanden/marketpress/pkg/store/client"
	"github.com/mslanden/marketpress/pkg/store/duckdb"
	duckdbmarket "github.com/mslanden/marketpress/pkg/store/duckdb/market"
	duckdbsync "github.com/mslanden/marketpress/pkg/store/duckdb/sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	regionsPath  string
	exporterPath string
	dbPath       string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for MarketPress",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&regionsPath, "regions", "r", "regions.ini",
		"Path to the region profiles file")
	rootCmd.Flags().StringVarP(&exporterPath, "config", "c", "",
		"Path to the exporter config file (defaults apply when omitted)")
	rootCmd.Flags().StringVar(&dbPath, "db", "marketpress.db",
		"Path to the market data database")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	regions, err := config.NewRegistry(regionsPath)
	if err != nil {
		return fmt.Errorf("failed to create region registry: %w", err)
	}

	exportCfg := export.DefaultConfig()
	if exporterPath != "" {
		exportCfg, err = export.LoadConfig(exporterPath)
		if err != nil {
			return fmt.Errorf("failed to load exporter config: %w", err)
		}
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
	if err != nil {
		return fmt.Errorf("failed to open market database: %w", err)
	}

	marketStore, err := duckdbmarket.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create market store: %w", err)
	}
	provider, err := marketdata.NewStoreProvider(marketStore)
	if err != nil {
		return fmt.Errorf("failed to create market data provider: %w", err)
	}

	exporter, err := export.NewExporter(exportCfg, provider, regions)
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	syncStore, err := duckdbsync.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create sync store: %w", err)
	}
	syncs := ingest.NewController(ctx, db, regions, syncStore, marketStore,
		func(profile domain.RegionProfile) marketdata.Provider {
			return client.NewMarketClient(profile.FeedURL)
		})
	if err := syncs.Init(ctx); err != nil {
		return fmt.Errorf("failed to resume feed syncs: %w", err)
	}

	var archiver archive.Uploader
	if bucket := os.Getenv("ARCHIVE_BUCKET"); bucket != "" {
		archiver, err = archive.NewS3Uploader(ctx, bucket, os.Getenv("ARCHIVE_PREFIX"))
		if err != nil {
			return fmt.Errorf("failed to create newsletter archive: %w", err)
		}
		logger.Info().Str("bucket", bucket).Msg("newsletter archiving enabled")
	}

	profiles, err := regions.GetRegions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load region profiles: %w", err)
	}
	logger.Info().Msgf("Region profiles found at `%s` successfully loaded.", regionsPath)
	for _, profile := range profiles {
		logger.Info().Msgf("Region: `%s`, Name: `%s`", profile.Key, profile.DisplayName)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Exporter: exporter,
			Regions:  regions,
			Archiver: archiver,
			Syncs:    syncs,
		},
	})

	return webAPI.Start()
}
