package dashboard

import (
	"context"
	"fmt"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
)

// SummaryReport renders the worldwide headline figures for the terminal.
func (e *explorer) SummaryReport(ctx context.Context) (*domain.Report, error) {
	summary, err := e.store.GlobalSummary(ctx)
	if err != nil {
		return nil, err
	}

	period := domain.TimePeriod{
		Start:    summary.Period.From,
		End:      summary.Period.To,
		Duration: int(summary.Period.To.Sub(summary.Period.From).Hours() / 24),
	}

	return &domain.Report{
		Title:  "Global COVID-19 Summary",
		Period: period,
		Sections: []domain.ReportSection{{
			Title: "Worldwide Totals",
			Summary: map[string]interface{}{
				"Countries": summary.Countries,
			},
			Details: []domain.ReportDetail{
				{Name: "Total Cases", Value: fmt.Sprintf("%.0f", summary.TotalCases), Unit: "cases"},
				{Name: "Total Deaths", Value: fmt.Sprintf("%.0f", summary.TotalDeaths), Unit: "deaths"},
				{Name: "Total Vaccinations", Value: fmt.Sprintf("%.0f", summary.TotalVaccinations), Unit: "doses"},
			},
		}},
	}, nil
}

// TrendReport renders a derived series as a table, one row per defined point.
func (e *explorer) TrendReport(ctx context.Context, query SeriesQuery) (*domain.Report, error) {
	result, err := e.CountrySeries(ctx, query)
	if err != nil {
		return nil, err
	}

	details := make([]domain.ReportDetail, 0, len(result.Points))
	for _, p := range result.Points {
		detail := domain.ReportDetail{Name: p.Date.Format("2006-01-02")}
		if p.Defined {
			detail.Value = fmt.Sprintf("%.2f", p.Value)
		} else {
			detail.Value = "-"
			detail.Description = "window not filled or zero base"
		}
		details = append(details, detail)
	}

	title := fmt.Sprintf("%s for %s", transformTitle(result.Transform, result.Window), result.Country)
	return &domain.Report{
		Title:  title,
		Period: periodOf(result.Points),
		Sections: []domain.ReportSection{{
			Title: string(result.Metric),
			Summary: map[string]interface{}{
				"Points": len(result.Points),
			},
			Details: details,
		}},
	}, nil
}

// ForecastReport renders predicted rows with their interval bounds.
func (e *explorer) ForecastReport(
	ctx context.Context,
	country string,
	metric domain.Metric,
	horizon int,
) (*domain.Report, error) {
	fc, err := e.CountryForecast(ctx, country, metric, horizon)
	if err != nil {
		return nil, err
	}

	details := make([]domain.ReportDetail, 0, len(fc.Points))
	for _, p := range fc.Points {
		details = append(details, domain.ReportDetail{
			Name:        p.Date.Format("2006-01-02"),
			Value:       fmt.Sprintf("%.1f", p.Value),
			Description: fmt.Sprintf("bounds [%.1f, %.1f]", p.Lower, p.Upper),
		})
	}

	var period domain.TimePeriod
	if len(fc.Points) > 0 {
		period = domain.TimePeriod{
			Start:    fc.Points[0].Date,
			End:      fc.Points[len(fc.Points)-1].Date,
			Duration: fc.Horizon,
		}
	}

	return &domain.Report{
		Title:  fmt.Sprintf("COVID-19 %s Forecast for %s", fc.Metric, fc.Country),
		Period: period,
		Sections: []domain.ReportSection{{
			Title: "Predicted Values",
			Summary: map[string]interface{}{
				"Horizon": fc.Horizon,
			},
			Details: details,
		}},
	}, nil
}

func transformTitle(t Transform, window int) string {
	switch t {
	case TransformMovingAverage:
		return fmt.Sprintf("%d-Day Moving Average", window)
	case TransformGrowthRate:
		return "Growth Rate"
	default:
		return "Daily Values"
	}
}

func periodOf(points domain.DerivedSeries) domain.TimePeriod {
	if len(points) == 0 {
		return domain.TimePeriod{}
	}
	start := points[0].Date
	end := points[len(points)-1].Date
	return domain.TimePeriod{
		Start:    start,
		End:      end,
		Duration: int(end.Sub(start).Hours() / 24),
	}
}
