// Package dashboard joins the record store, the trend transforms, and the
// forecast engine into the operations the web and terminal frontends serve.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/covid-atlas/pkg/adapters"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/forecast"
	"github.com/de-tools/covid-atlas/pkg/services/trend"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb/records"
)

type Transform string

const (
	TransformRaw           Transform = "raw"
	TransformMovingAverage Transform = "avg"
	TransformGrowthRate    Transform = "growth"
)

const (
	MinHorizon = 7
	MaxHorizon = 90

	// defaultRangeDays bounds an unqualified series query to the most
	// recent year of data.
	defaultRangeDays = 365
)

// Defaults carry the configured fallbacks for optional query parameters.
type Defaults struct {
	Window  int
	Horizon int
}

type SeriesQuery struct {
	Country   string
	Metric    domain.Metric
	Transform Transform
	Window    int
	Range     domain.DateRange
}

type SeriesResult struct {
	Country   string
	Metric    domain.Metric
	Transform Transform
	Window    int
	Points    domain.DerivedSeries
}

type Explorer interface {
	ListCountries(ctx context.Context) ([]string, error)
	GlobalSummary(ctx context.Context) (*domain.GlobalSummary, error)
	AggregateGlobal(ctx context.Context, metric domain.Metric, date time.Time) (float64, error)
	CountrySeries(ctx context.Context, query SeriesQuery) (*SeriesResult, error)
	Compare(ctx context.Context, countries []string, metric domain.Metric, rng domain.DateRange) ([]SeriesResult, error)
	CountryForecast(ctx context.Context, country string, metric domain.Metric, horizon int) (*domain.Forecast, error)

	SummaryReport(ctx context.Context) (*domain.Report, error)
	TrendReport(ctx context.Context, query SeriesQuery) (*domain.Report, error)
	ForecastReport(ctx context.Context, country string, metric domain.Metric, horizon int) (*domain.Report, error)
}

type explorer struct {
	store    records.Store
	engine   forecast.Engine
	defaults Defaults
}

func NewExplorer(store records.Store, engine forecast.Engine, defaults Defaults) Explorer {
	if defaults.Window < 1 {
		defaults.Window = 7
	}
	if defaults.Horizon < MinHorizon || defaults.Horizon > MaxHorizon {
		defaults.Horizon = 30
	}
	return &explorer{store: store, engine: engine, defaults: defaults}
}

func (e *explorer) ListCountries(ctx context.Context) ([]string, error) {
	return e.store.ListCountries(ctx)
}

func (e *explorer) GlobalSummary(ctx context.Context) (*domain.GlobalSummary, error) {
	return e.store.GlobalSummary(ctx)
}

func (e *explorer) AggregateGlobal(ctx context.Context, metric domain.Metric, date time.Time) (float64, error) {
	storeRecords, err := e.store.GetByDate(ctx, date)
	if err != nil {
		return 0, err
	}
	recs := make([]domain.DailyRecord, len(storeRecords))
	for i, r := range storeRecords {
		recs[i] = adapters.MapStoreRecordToDomain(r)
	}
	return trend.AggregateGlobal(recs, metric, date)
}

func (e *explorer) CountrySeries(ctx context.Context, query SeriesQuery) (*SeriesResult, error) {
	if query.Country == "" {
		return nil, fmt.Errorf("%w: country is required", domain.ErrInvalidInput)
	}
	if _, err := domain.ParseMetric(string(query.Metric)); err != nil {
		return nil, err
	}

	transform := query.Transform
	if transform == "" {
		transform = TransformRaw
	}
	switch transform {
	case TransformRaw, TransformMovingAverage, TransformGrowthRate:
	default:
		return nil, fmt.Errorf("%w: unknown transform %q", domain.ErrInvalidInput, transform)
	}

	window := query.Window
	if window == 0 {
		window = e.defaults.Window
	}

	rng, err := e.resolveRange(ctx, query.Range)
	if err != nil {
		return nil, err
	}

	series, err := e.store.GetSeries(ctx, query.Country, query.Metric, rng)
	if err != nil {
		return nil, err
	}

	result := &SeriesResult{
		Country:   query.Country,
		Metric:    query.Metric,
		Transform: transform,
	}

	switch transform {
	case TransformRaw:
		result.Points = adapters.MapTimeSeriesToDerived(series)
	case TransformMovingAverage:
		result.Window = window
		result.Points, err = trend.MovingAverage(series, window)
	case TransformGrowthRate:
		result.Points, err = trend.GrowthRate(series)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (e *explorer) Compare(
	ctx context.Context,
	countries []string,
	metric domain.Metric,
	rng domain.DateRange,
) ([]SeriesResult, error) {
	if len(countries) == 0 {
		return nil, fmt.Errorf("%w: at least one country is required", domain.ErrInvalidInput)
	}

	results := make([]SeriesResult, 0, len(countries))
	for _, country := range countries {
		result, err := e.CountrySeries(ctx, SeriesQuery{
			Country:   country,
			Metric:    metric,
			Transform: TransformRaw,
			Range:     rng,
		})
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

func (e *explorer) CountryForecast(
	ctx context.Context,
	country string,
	metric domain.Metric,
	horizon int,
) (*domain.Forecast, error) {
	if country == "" {
		return nil, fmt.Errorf("%w: country is required", domain.ErrInvalidInput)
	}
	if _, err := domain.ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	if horizon == 0 {
		horizon = e.defaults.Horizon
	}
	if horizon < MinHorizon || horizon > MaxHorizon {
		return nil, fmt.Errorf("%w: horizon must be between %d and %d, got %d",
			domain.ErrInvalidInput, MinHorizon, MaxHorizon, horizon)
	}

	rng, err := e.resolveRange(ctx, domain.DateRange{})
	if err != nil {
		return nil, err
	}
	series, err := e.store.GetSeries(ctx, country, metric, rng)
	if err != nil {
		return nil, err
	}

	points, err := e.engine.Predict(ctx, series, horizon)
	if err != nil {
		return nil, err
	}

	return &domain.Forecast{
		Country: country,
		Metric:  metric,
		Horizon: horizon,
		Points:  points,
	}, nil
}

// resolveRange fills an unqualified query with the last year of data.
func (e *explorer) resolveRange(ctx context.Context, rng domain.DateRange) (domain.DateRange, error) {
	if !rng.IsZero() {
		if rng.From.IsZero() {
			rng.From = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		if rng.To.IsZero() {
			rng.To = time.Now().UTC()
		}
		if rng.To.Before(rng.From) {
			return rng, fmt.Errorf("%w: range end %s precedes start %s", domain.ErrInvalidInput,
				rng.To.Format("2006-01-02"), rng.From.Format("2006-01-02"))
		}
		return rng, nil
	}

	stats, err := e.store.GetStats(ctx)
	if err != nil {
		return rng, err
	}
	if stats.LastDate == nil {
		return rng, fmt.Errorf("%w: dataset is empty", domain.ErrInvalidInput)
	}

	rng.To = *stats.LastDate
	rng.From = rng.To.AddDate(0, 0, -defaultRangeDays)
	if stats.FirstDate != nil && stats.FirstDate.After(rng.From) {
		rng.From = *stats.FirstDate
	}
	return rng, nil
}
