// Package export serializes derived tables and charts for download: CSV for
// the data, PNG for the rendered figure.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
)

const dateLayout = "2006-01-02"

type CSVReporter struct{}

func NewCSVReporter() *CSVReporter {
	return &CSVReporter{}
}

// WriteForecast writes one row per predicted date with its interval bounds.
func (c *CSVReporter) WriteForecast(w io.Writer, forecast *domain.Forecast) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Date", "Predicted", "Lower Bound", "Upper Bound"}); err != nil {
		return fmt.Errorf("write forecast header: %w", err)
	}

	for _, p := range forecast.Points {
		row := []string{
			p.Date.Format(dateLayout),
			formatValue(p.Value),
			formatValue(p.Lower),
			formatValue(p.Upper),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write forecast row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSeries writes a derived series, leaving the value cell empty for
// undefined points.
func (c *CSVReporter) WriteSeries(w io.Writer, result *dashboard.SeriesResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Date", string(result.Metric)}); err != nil {
		return fmt.Errorf("write series header: %w", err)
	}

	for _, p := range result.Points {
		value := ""
		if p.Defined {
			value = formatValue(p.Value)
		}
		if err := cw.Write([]string{p.Date.Format(dateLayout), value}); err != nil {
			return fmt.Errorf("write series row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
