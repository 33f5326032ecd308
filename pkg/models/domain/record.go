package domain

import (
	"fmt"
	"time"
)

// DailyRecord is one row of the source dataset: the reported figures for a
// single country on a single date. Values are float64 because source files
// carry blank cells and occasional negative corrections, both of which pass
// through unmodified.
type DailyRecord struct {
	Country         string
	Date            time.Time
	NewCases        float64
	TotalCases      float64
	NewDeaths       float64
	TotalDeaths     float64
	NewVaccinations float64
}

// Metric names a numeric column of the dataset.
type Metric string

const (
	MetricNewCases        Metric = "new_cases"
	MetricTotalCases      Metric = "total_cases"
	MetricNewDeaths       Metric = "new_deaths"
	MetricTotalDeaths     Metric = "total_deaths"
	MetricNewVaccinations Metric = "new_vaccinations"
)

// Metrics returns every queryable metric in a stable order.
func Metrics() []Metric {
	return []Metric{
		MetricNewCases,
		MetricTotalCases,
		MetricNewDeaths,
		MetricTotalDeaths,
		MetricNewVaccinations,
	}
}

// ParseMetric validates a user-supplied metric name.
func ParseMetric(name string) (Metric, error) {
	switch m := Metric(name); m {
	case MetricNewCases, MetricTotalCases, MetricNewDeaths, MetricTotalDeaths, MetricNewVaccinations:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, name)
	}
}

// ValueOf extracts the metric's value from a record.
func (m Metric) ValueOf(r DailyRecord) float64 {
	switch m {
	case MetricNewCases:
		return r.NewCases
	case MetricTotalCases:
		return r.TotalCases
	case MetricNewDeaths:
		return r.NewDeaths
	case MetricTotalDeaths:
		return r.TotalDeaths
	case MetricNewVaccinations:
		return r.NewVaccinations
	default:
		return 0
	}
}
