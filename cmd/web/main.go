package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/covid-atlas/pkg/server"
	"github.com/de-tools/covid-atlas/pkg/services/config"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/de-tools/covid-atlas/pkg/services/dataset"
	"github.com/de-tools/covid-atlas/pkg/services/forecast"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb/records"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for COVID Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "config.yaml",
		"Path to the covid-atlas config file")

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

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DB.Path})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	recordStore, err := records.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create record store: %w", err)
	}

	loader, err := dataset.NewLoader(cfg.Dataset.Path, dataset.Format(cfg.Dataset.Format))
	if err != nil {
		return err
	}

	logger.Info().Str("path", cfg.Dataset.Path).Msg("loading dataset")
	recs, err := loader.Load()
	if err != nil {
		return err
	}

	ingestor := dataset.NewIngestor(db, recordStore)
	go func() {
		for p := range ingestor.Progress() {
			logger.Info().Int64("loaded", p.Loaded).Int64("total", p.Total).Msg("ingesting")
		}
	}()
	if err := ingestor.Run(ctx, recs); err != nil {
		return err
	}

	stats, err := recordStore.GetStats(ctx)
	if err != nil {
		return err
	}
	logger.Info().
		Int64("records", stats.RecordsCount).
		Int64("countries", stats.Countries).
		Msg("dataset ready")

	engine := forecast.NewLinearEngine()
	engine.MinPoints = cfg.Forecast.MinPoints

	explorer := dashboard.NewExplorer(recordStore, engine, dashboard.Defaults{
		Window:  cfg.Trends.DefaultWindow,
		Horizon: cfg.Forecast.DefaultHorizon,
	})

	host := os.Getenv("SERVER_HOST")
	if host == "" {
		host = cfg.Server.Host
	}
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Explorer: explorer,
			Logger:   logger,
		},
	})

	return api.Start()
}
