package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/terminal/export"
	"github.com/spf13/cobra"
)

type ForecastCmd struct {
	country  string
	metric   string
	horizon  int
	explorer ExplorerProvider
	reporter *export.Reporter
}

func NewForecastCmd(explorer ExplorerProvider, reporter *export.Reporter) *cobra.Command {
	fc := &ForecastCmd{explorer: explorer, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Predict future values for a country",
		RunE:  fc.run,
	}

	cmd.Flags().StringVar(&fc.country, "country", "", "Country to forecast")
	cmd.Flags().StringVar(&fc.metric, "metric", "new_cases", "Metric column to forecast")
	cmd.Flags().IntVar(&fc.horizon, "horizon", 30, "Days to predict (7-90)")

	_ = cmd.MarkFlagRequired("country")

	return cmd
}

func (fc *ForecastCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	metric, err := domain.ParseMetric(fc.metric)
	if err != nil {
		return err
	}

	report, err := fc.explorer().ForecastReport(ctx, fc.country, metric, fc.horizon)
	if err != nil {
		return fmt.Errorf("failed to forecast: %w", err)
	}
	return fc.reporter.Handle(report)
}
