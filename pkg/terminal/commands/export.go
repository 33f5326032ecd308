package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	dataexport "github.com/de-tools/covid-atlas/pkg/export"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	country   string
	metric    string
	transform string
	window    int
	horizon   int
	format    string
	out       string
	explorer  ExplorerProvider
}

// NewExportCmd writes a derived series or a forecast to a CSV or PNG file.
func NewExportCmd(explorer ExplorerProvider) *cobra.Command {
	ec := &ExportCmd{explorer: explorer}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a series or forecast as CSV or PNG",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.country, "country", "", "Country to export")
	cmd.Flags().StringVar(&ec.metric, "metric", "new_cases", "Metric column to export")
	cmd.Flags().StringVar(&ec.transform, "transform", "raw", "Transform to apply (raw, avg, growth); ignored for forecasts")
	cmd.Flags().IntVar(&ec.window, "window", 7, "Moving average window in days")
	cmd.Flags().IntVar(&ec.horizon, "horizon", 0, "Forecast horizon; 0 exports the historical series instead")
	cmd.Flags().StringVar(&ec.format, "format", "csv", "Output format (csv, png)")
	cmd.Flags().StringVar(&ec.out, "out", "", "Output file path")

	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	metric, err := domain.ParseMetric(ec.metric)
	if err != nil {
		return err
	}

	var payload []byte
	if ec.horizon > 0 {
		payload, err = ec.forecastPayload(ctx, metric)
	} else {
		payload, err = ec.seriesPayload(ctx, metric)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(ec.out, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ec.out, err)
	}
	cmd.Printf("wrote %s\n", ec.out)
	return nil
}

func (ec *ExportCmd) forecastPayload(ctx context.Context, metric domain.Metric) ([]byte, error) {
	forecast, err := ec.explorer().CountryForecast(ctx, ec.country, metric, ec.horizon)
	if err != nil {
		return nil, err
	}

	switch ec.format {
	case "csv":
		var buf bytes.Buffer
		if err := dataexport.NewCSVReporter().WriteForecast(&buf, forecast); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "png":
		return dataexport.NewChartRenderer().ForecastPNG(forecast)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidInput, ec.format)
	}
}

func (ec *ExportCmd) seriesPayload(ctx context.Context, metric domain.Metric) ([]byte, error) {
	result, err := ec.explorer().CountrySeries(ctx, dashboard.SeriesQuery{
		Country:   ec.country,
		Metric:    metric,
		Transform: dashboard.Transform(ec.transform),
		Window:    ec.window,
	})
	if err != nil {
		return nil, err
	}

	switch ec.format {
	case "csv":
		var buf bytes.Buffer
		if err := dataexport.NewCSVReporter().WriteSeries(&buf, result); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "png":
		title := fmt.Sprintf("%s - %s", result.Country, result.Metric)
		return dataexport.NewChartRenderer().LinePNG(title, string(result.Metric), result.Points)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidInput, ec.format)
	}
}
