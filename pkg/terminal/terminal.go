// Package terminal wires the cobra command tree for the CLI runtime. The
// dataset loads once in the root pre-run; subcommands are synchronous reads
// over the resulting store.
package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/covid-atlas/pkg/services/config"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/de-tools/covid-atlas/pkg/services/dataset"
	"github.com/de-tools/covid-atlas/pkg/services/forecast"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb/records"
	"github.com/de-tools/covid-atlas/pkg/terminal/commands"
	"github.com/de-tools/covid-atlas/pkg/terminal/export"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface.
type CLI struct {
	cfgPath  string
	reporter *export.Reporter
	logger   zerolog.Logger
	rootCmd  *cobra.Command

	explorer dashboard.Explorer
}

// Options contain configuration for the CLI.
type Options struct {
	Output io.Writer
	Logger zerolog.Logger
}

// NewCLI creates a new CLI instance.
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
		logger:   opts.Logger,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "covid-atlas",
		Short:             "COVID-19 trend analysis and forecasting",
		PersistentPreRunE: cli.loadDataset,
	}

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "config.yaml",
		"Path to the covid-atlas config file")

	provider := func() dashboard.Explorer { return cli.explorer }
	cmd.AddCommand(commands.NewSummaryCmd(provider, cli.reporter))
	cmd.AddCommand(commands.NewTrendCmd(provider, cli.reporter))
	cmd.AddCommand(commands.NewForecastCmd(provider, cli.reporter))
	cmd.AddCommand(commands.NewExportCmd(provider))

	return cmd
}

func (cli *CLI) loadDataset(cmd *cobra.Command, _ []string) error {
	ctx := cli.logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	cfg, err := config.Load(cli.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DB.Path})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	recordStore, err := records.NewStore(db)
	if err != nil {
		return err
	}

	loader, err := dataset.NewLoader(cfg.Dataset.Path, dataset.Format(cfg.Dataset.Format))
	if err != nil {
		return err
	}
	recs, err := loader.Load()
	if err != nil {
		return err
	}

	if err := dataset.NewIngestor(db, recordStore).Run(ctx, recs); err != nil {
		return err
	}

	engine := forecast.NewLinearEngine()
	engine.MinPoints = cfg.Forecast.MinPoints

	cli.explorer = dashboard.NewExplorer(recordStore, engine, dashboard.Defaults{
		Window:  cfg.Trends.DefaultWindow,
		Horizon: cfg.Forecast.DefaultHorizon,
	})
	return nil
}
