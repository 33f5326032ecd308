package export

import (
	"strings"
	"testing"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReporter_WriteForecast(t *testing.T) {
	start := time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)
	forecast := &domain.Forecast{
		Country: "Italy",
		Metric:  domain.MetricNewCases,
		Horizon: 2,
		Points: []domain.ForecastPoint{
			{Date: start, Value: 100.5, Lower: 90, Upper: 111},
			{Date: start.AddDate(0, 0, 1), Value: 102, Lower: 91.5, Upper: 112.5},
		},
	}

	var sb strings.Builder
	require.NoError(t, NewCSVReporter().WriteForecast(&sb, forecast))

	expected := "Date,Predicted,Lower Bound,Upper Bound\n" +
		"2021-07-01,100.5,90,111\n" +
		"2021-07-02,102,91.5,112.5\n"
	assert.Equal(t, expected, sb.String())
}

func TestCSVReporter_WriteSeries(t *testing.T) {
	start := time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)
	result := &dashboard.SeriesResult{
		Country:   "Italy",
		Metric:    domain.MetricNewCases,
		Transform: dashboard.TransformMovingAverage,
		Window:    2,
		Points: domain.DerivedSeries{
			{Date: start, Defined: false},
			{Date: start.AddDate(0, 0, 1), Value: 15, Defined: true},
		},
	}

	var sb strings.Builder
	require.NoError(t, NewCSVReporter().WriteSeries(&sb, result))

	expected := "Date,new_cases\n" +
		"2021-07-01,\n" +
		"2021-07-02,15\n"
	assert.Equal(t, expected, sb.String())
}
