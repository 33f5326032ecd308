package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/api"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) ListCountries(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockExplorer) GlobalSummary(ctx context.Context) (*domain.GlobalSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GlobalSummary), args.Error(1)
}

func (m *mockExplorer) AggregateGlobal(ctx context.Context, metric domain.Metric, date time.Time) (float64, error) {
	args := m.Called(ctx, metric, date)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockExplorer) CountrySeries(ctx context.Context, query dashboard.SeriesQuery) (*dashboard.SeriesResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.SeriesResult), args.Error(1)
}

func (m *mockExplorer) Compare(
	ctx context.Context,
	countries []string,
	metric domain.Metric,
	rng domain.DateRange,
) ([]dashboard.SeriesResult, error) {
	args := m.Called(ctx, countries, metric, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dashboard.SeriesResult), args.Error(1)
}

func (m *mockExplorer) CountryForecast(
	ctx context.Context,
	country string,
	metric domain.Metric,
	horizon int,
) (*domain.Forecast, error) {
	args := m.Called(ctx, country, metric, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Forecast), args.Error(1)
}

func (m *mockExplorer) SummaryReport(ctx context.Context) (*domain.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockExplorer) TrendReport(ctx context.Context, query dashboard.SeriesQuery) (*domain.Report, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockExplorer) ForecastReport(
	ctx context.Context,
	country string,
	metric domain.Metric,
	horizon int,
) (*domain.Report, error) {
	args := m.Called(ctx, country, metric, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var v T
		err := json.Unmarshal(data, &v)
		return v, err
	}
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	mockExp := new(mockExplorer)

	config := Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Explorer: mockExp,
			Logger:   logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	date := time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)
	value := 15.0

	tests := []struct {
		name           string
		path           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name: "ListCountries",
			path: "/api/v1/countries",
			setupMocks: func() {
				mockExp.On("ListCountries", mock.Anything).
					Return([]string{"France", "Italy"}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       []api.Country{{Name: "France"}, {Name: "Italy"}},
			parseResponse:  unmarshalResponse[[]api.Country](),
		},
		{
			name: "GlobalSummary",
			path: "/api/v1/summary/global",
			setupMocks: func() {
				mockExp.On("GlobalSummary", mock.Anything).
					Return(&domain.GlobalSummary{
						TotalCases:        1000,
						TotalDeaths:       50,
						TotalVaccinations: 2000,
						Countries:         2,
						Period:            domain.DateRange{From: date, To: date.AddDate(0, 0, 30)},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.GlobalSummary{
				TotalCases:        1000,
				TotalDeaths:       50,
				TotalVaccinations: 2000,
				Countries:         2,
				From:              date,
				To:                date.AddDate(0, 0, 30),
			},
			parseResponse: unmarshalResponse[api.GlobalSummary](),
		},
		{
			name: "GetSeries",
			path: "/api/v1/countries/Italy/metrics/new_cases/series?transform=avg&window=2",
			setupMocks: func() {
				mockExp.On("CountrySeries", mock.Anything, dashboard.SeriesQuery{
					Country:   "Italy",
					Metric:    domain.MetricNewCases,
					Transform: dashboard.TransformMovingAverage,
					Window:    2,
				}).Return(&dashboard.SeriesResult{
					Country:   "Italy",
					Metric:    domain.MetricNewCases,
					Transform: dashboard.TransformMovingAverage,
					Window:    2,
					Points: domain.DerivedSeries{
						{Date: date, Defined: false},
						{Date: date.AddDate(0, 0, 1), Value: value, Defined: true},
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.Series{
				Country:   "Italy",
				Metric:    "new_cases",
				Transform: "avg",
				Window:    2,
				Points: []api.SeriesPoint{
					{Date: "2021-07-01"},
					{Date: "2021-07-02", Value: &value},
				},
			},
			parseResponse: unmarshalResponse[api.Series](),
		},
		{
			name: "GetForecast",
			path: "/api/v1/countries/Italy/metrics/new_cases/forecast?horizon=7",
			setupMocks: func() {
				mockExp.On("CountryForecast", mock.Anything, "Italy", domain.MetricNewCases, 7).
					Return(&domain.Forecast{
						Country: "Italy",
						Metric:  domain.MetricNewCases,
						Horizon: 7,
						Points: []domain.ForecastPoint{
							{Date: date, Value: 100, Lower: 90, Upper: 110},
						},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.Forecast{
				Available: true,
				Country:   "Italy",
				Metric:    "new_cases",
				Horizon:   7,
				Rows: []api.ForecastRow{
					{Date: "2021-07-01", Predicted: 100, Lower: 90, Upper: 110},
				},
			},
			parseResponse: unmarshalResponse[api.Forecast](),
		},
		{
			name: "GetForecast_Unavailable",
			path: "/api/v1/countries/Vatican/metrics/new_cases/forecast",
			setupMocks: func() {
				mockExp.On("CountryForecast", mock.Anything, "Vatican", domain.MetricNewCases, 0).
					Return(nil, domain.ErrForecastUnavailable)
			},
			expectedStatus: http.StatusOK,
			expected: api.Forecast{
				Available: false,
				Reason:    domain.ErrForecastUnavailable.Error(),
			},
			parseResponse: unmarshalResponse[api.Forecast](),
		},
		{
			name:           "GetSeries_InvalidMetric",
			path:           "/api/v1/countries/Italy/metrics/icu_patients/series",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expected:       "invalid input: unknown metric \"icu_patients\"\n",
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
		{
			name:           "GetSeries_InvalidFromDate",
			path:           "/api/v1/countries/Italy/metrics/new_cases/series?from=invalid-date",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expected:       "invalid input: invalid 'from' date format. Expected format: YYYY-MM-DD\n",
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
		{
			name: "GetSeries_UnknownCountry",
			path: "/api/v1/countries/Atlantis/metrics/new_cases/series",
			setupMocks: func() {
				mockExp.On("CountrySeries", mock.Anything, dashboard.SeriesQuery{
					Country: "Atlantis",
					Metric:  domain.MetricNewCases,
				}).Return(nil, domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expected:       "not found\n",
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMocks()

			resp, err := http.Get(testServer.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			parsed, err := tt.parseResponse(body)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed)
		})
	}
}

func TestWebAPI_ForecastExport(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	mockExp := new(mockExplorer)

	router := ConfigureRouter(Config{
		Dependencies: Dependencies{Explorer: mockExp, Logger: logger},
	})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	date := time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)
	mockExp.On("CountryForecast", mock.Anything, "Italy", domain.MetricNewCases, 0).
		Return(&domain.Forecast{
			Country: "Italy",
			Metric:  domain.MetricNewCases,
			Horizon: 1,
			Points:  []domain.ForecastPoint{{Date: date, Value: 100, Lower: 90, Upper: 110}},
		}, nil)

	resp, err := http.Get(testServer.URL + "/api/v1/countries/Italy/metrics/new_cases/forecast/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Italy_covid_forecast.csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Date,Predicted,Lower Bound,Upper Bound\n2021-07-01,100,90,110\n", string(body))
}
