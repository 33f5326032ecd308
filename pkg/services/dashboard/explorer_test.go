package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Add(ctx context.Context, records []store.DailyRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *mockStore) ListCountries(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) GetSeries(
	ctx context.Context,
	country string,
	metric domain.Metric,
	rng domain.DateRange,
) (domain.TimeSeries, error) {
	args := m.Called(ctx, country, metric, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.TimeSeries), args.Error(1)
}

func (m *mockStore) GetByDate(ctx context.Context, date time.Time) ([]store.DailyRecord, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.DailyRecord), args.Error(1)
}

func (m *mockStore) GetStats(ctx context.Context) (*store.DatasetStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.DatasetStats), args.Error(1)
}

func (m *mockStore) GlobalSummary(ctx context.Context) (*domain.GlobalSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GlobalSummary), args.Error(1)
}

type stubEngine struct {
	points []domain.ForecastPoint
	err    error
}

func (s *stubEngine) Predict(_ context.Context, _ domain.TimeSeries, _ int) ([]domain.ForecastPoint, error) {
	return s.points, s.err
}

func fixedStats() *store.DatasetStats {
	first := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	return &store.DatasetStats{RecordsCount: 100, Countries: 2, FirstDate: &first, LastDate: &last}
}

func fixedSeries(n int) domain.TimeSeries {
	s := make(domain.TimeSeries, n)
	for i := range s {
		s[i] = domain.Point{
			Date:  time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Value: float64(10 + i),
		}
	}
	return s
}

func TestExplorer_CountrySeries(t *testing.T) {
	ctx := context.Background()

	t.Run("raw transform keeps every point defined", func(t *testing.T) {
		st := new(mockStore)
		st.On("GetStats", mock.Anything).Return(fixedStats(), nil)
		st.On("GetSeries", mock.Anything, "Italy", domain.MetricNewCases, mock.Anything).
			Return(fixedSeries(5), nil)

		e := NewExplorer(st, &stubEngine{}, Defaults{})
		result, err := e.CountrySeries(ctx, SeriesQuery{
			Country: "Italy",
			Metric:  domain.MetricNewCases,
		})
		require.NoError(t, err)
		assert.Equal(t, TransformRaw, result.Transform)
		require.Len(t, result.Points, 5)
		for _, p := range result.Points {
			assert.True(t, p.Defined)
		}
	})

	t.Run("moving average uses default window", func(t *testing.T) {
		st := new(mockStore)
		st.On("GetStats", mock.Anything).Return(fixedStats(), nil)
		st.On("GetSeries", mock.Anything, "Italy", domain.MetricNewCases, mock.Anything).
			Return(fixedSeries(10), nil)

		e := NewExplorer(st, &stubEngine{}, Defaults{Window: 7})
		result, err := e.CountrySeries(ctx, SeriesQuery{
			Country:   "Italy",
			Metric:    domain.MetricNewCases,
			Transform: TransformMovingAverage,
		})
		require.NoError(t, err)
		assert.Equal(t, 7, result.Window)
		require.Len(t, result.Points, 10)
		assert.False(t, result.Points[5].Defined)
		assert.True(t, result.Points[6].Defined)
	})

	t.Run("growth rate drops the first point", func(t *testing.T) {
		st := new(mockStore)
		st.On("GetStats", mock.Anything).Return(fixedStats(), nil)
		st.On("GetSeries", mock.Anything, "Italy", domain.MetricNewCases, mock.Anything).
			Return(fixedSeries(5), nil)

		e := NewExplorer(st, &stubEngine{}, Defaults{})
		result, err := e.CountrySeries(ctx, SeriesQuery{
			Country:   "Italy",
			Metric:    domain.MetricNewCases,
			Transform: TransformGrowthRate,
		})
		require.NoError(t, err)
		assert.Len(t, result.Points, 4)
	})

	t.Run("unqualified range defaults to the last year of data", func(t *testing.T) {
		st := new(mockStore)
		st.On("GetStats", mock.Anything).Return(fixedStats(), nil)

		last := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
		expected := domain.DateRange{From: last.AddDate(0, 0, -365), To: last}
		st.On("GetSeries", mock.Anything, "Italy", domain.MetricNewCases, expected).
			Return(fixedSeries(3), nil)

		e := NewExplorer(st, &stubEngine{}, Defaults{})
		_, err := e.CountrySeries(ctx, SeriesQuery{Country: "Italy", Metric: domain.MetricNewCases})
		require.NoError(t, err)
		st.AssertExpectations(t)
	})

	t.Run("error - unknown transform", func(t *testing.T) {
		e := NewExplorer(new(mockStore), &stubEngine{}, Defaults{})
		_, err := e.CountrySeries(ctx, SeriesQuery{
			Country:   "Italy",
			Metric:    domain.MetricNewCases,
			Transform: Transform("median"),
			Range:     domain.DateRange{From: time.Now().AddDate(0, 0, -7), To: time.Now()},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("error - inverted range", func(t *testing.T) {
		e := NewExplorer(new(mockStore), &stubEngine{}, Defaults{})
		now := time.Now()
		_, err := e.CountrySeries(ctx, SeriesQuery{
			Country: "Italy",
			Metric:  domain.MetricNewCases,
			Range:   domain.DateRange{From: now, To: now.AddDate(0, 0, -7)},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("error - unknown metric", func(t *testing.T) {
		e := NewExplorer(new(mockStore), &stubEngine{}, Defaults{})
		_, err := e.CountrySeries(ctx, SeriesQuery{Country: "Italy", Metric: domain.Metric("bogus")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestExplorer_CountryForecast(t *testing.T) {
	ctx := context.Background()

	t.Run("applies default horizon", func(t *testing.T) {
		st := new(mockStore)
		st.On("GetStats", mock.Anything).Return(fixedStats(), nil)
		st.On("GetSeries", mock.Anything, "Italy", domain.MetricNewCases, mock.Anything).
			Return(fixedSeries(10), nil)

		engine := &stubEngine{points: []domain.ForecastPoint{{Value: 1}}}
		e := NewExplorer(st, engine, Defaults{Horizon: 30})

		fc, err := e.CountryForecast(ctx, "Italy", domain.MetricNewCases, 0)
		require.NoError(t, err)
		assert.Equal(t, 30, fc.Horizon)
		assert.Equal(t, "Italy", fc.Country)
	})

	t.Run("error - horizon outside accepted range", func(t *testing.T) {
		e := NewExplorer(new(mockStore), &stubEngine{}, Defaults{})
		_, err := e.CountryForecast(ctx, "Italy", domain.MetricNewCases, 120)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = e.CountryForecast(ctx, "Italy", domain.MetricNewCases, 3)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("engine unavailability passes through", func(t *testing.T) {
		st := new(mockStore)
		st.On("GetStats", mock.Anything).Return(fixedStats(), nil)
		st.On("GetSeries", mock.Anything, "Italy", domain.MetricNewCases, mock.Anything).
			Return(fixedSeries(2), nil)

		engine := &stubEngine{err: domain.ErrForecastUnavailable}
		e := NewExplorer(st, engine, Defaults{})

		_, err := e.CountryForecast(ctx, "Italy", domain.MetricNewCases, 30)
		assert.ErrorIs(t, err, domain.ErrForecastUnavailable)
	})
}

func TestExplorer_AggregateGlobal(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	st := new(mockStore)
	st.On("GetByDate", mock.Anything, date).Return([]store.DailyRecord{
		{Country: "A", Date: date, NewCases: 5},
		{Country: "B", Date: date, NewCases: 7},
	}, nil)

	e := NewExplorer(st, &stubEngine{}, Defaults{})
	sum, err := e.AggregateGlobal(ctx, domain.MetricNewCases, date)
	require.NoError(t, err)
	assert.Equal(t, 12.0, sum)
}

func TestExplorer_Compare(t *testing.T) {
	ctx := context.Background()

	t.Run("returns one series per country", func(t *testing.T) {
		st := new(mockStore)
		st.On("GetStats", mock.Anything).Return(fixedStats(), nil)
		st.On("GetSeries", mock.Anything, "Italy", domain.MetricNewCases, mock.Anything).
			Return(fixedSeries(3), nil)
		st.On("GetSeries", mock.Anything, "France", domain.MetricNewCases, mock.Anything).
			Return(fixedSeries(3), nil)

		e := NewExplorer(st, &stubEngine{}, Defaults{})
		results, err := e.Compare(ctx, []string{"Italy", "France"}, domain.MetricNewCases, domain.DateRange{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Italy", results[0].Country)
		assert.Equal(t, "France", results[1].Country)
	})

	t.Run("error - no countries", func(t *testing.T) {
		e := NewExplorer(new(mockStore), &stubEngine{}, Defaults{})
		_, err := e.Compare(ctx, nil, domain.MetricNewCases, domain.DateRange{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
