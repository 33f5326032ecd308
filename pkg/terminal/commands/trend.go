package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/de-tools/covid-atlas/pkg/terminal/export"
	"github.com/spf13/cobra"
)

type TrendCmd struct {
	country   string
	metric    string
	transform string
	window    int
	from      string
	to        string
	explorer  ExplorerProvider
	reporter  *export.Reporter
}

func NewTrendCmd(explorer ExplorerProvider, reporter *export.Reporter) *cobra.Command {
	tc := &TrendCmd{explorer: explorer, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show a derived series for a country",
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.country, "country", "", "Country to analyze")
	cmd.Flags().StringVar(&tc.metric, "metric", "new_cases", "Metric column to analyze")
	cmd.Flags().StringVar(&tc.transform, "transform", "avg", "Transform to apply (raw, avg, growth)")
	cmd.Flags().IntVar(&tc.window, "window", 7, "Moving average window in days")
	cmd.Flags().StringVar(&tc.from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&tc.to, "to", "", "Range end (YYYY-MM-DD)")

	_ = cmd.MarkFlagRequired("country")

	return cmd
}

func (tc *TrendCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	metric, err := domain.ParseMetric(tc.metric)
	if err != nil {
		return err
	}

	rng, err := parseRange(tc.from, tc.to)
	if err != nil {
		return err
	}

	report, err := tc.explorer().TrendReport(ctx, dashboard.SeriesQuery{
		Country:   tc.country,
		Metric:    metric,
		Transform: dashboard.Transform(tc.transform),
		Window:    tc.window,
		Range:     rng,
	})
	if err != nil {
		return fmt.Errorf("failed to compute trend: %w", err)
	}
	return tc.reporter.Handle(report)
}

func parseRange(from, to string) (domain.DateRange, error) {
	var rng domain.DateRange
	var err error

	if from != "" {
		rng.From, err = time.Parse("2006-01-02", from)
		if err != nil {
			return rng, fmt.Errorf("%w: invalid --from date %q", domain.ErrInvalidInput, from)
		}
	}
	if to != "" {
		rng.To, err = time.Parse("2006-01-02", to)
		if err != nil {
			return rng, fmt.Errorf("%w: invalid --to date %q", domain.ErrInvalidInput, to)
		}
	}
	return rng, nil
}
