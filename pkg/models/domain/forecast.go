package domain

import "time"

// ForecastPoint is one predicted future observation with its interval bounds.
type ForecastPoint struct {
	Date  time.Time
	Value float64
	Lower float64
	Upper float64
}

// Forecast is the result of asking the forecast engine to extend a country's
// series by Horizon future periods.
type Forecast struct {
	Country string
	Metric  Metric
	Horizon int
	Points  []ForecastPoint
}
