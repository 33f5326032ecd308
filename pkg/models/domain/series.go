package domain

import "time"

// Point is a single observation in a time series.
type Point struct {
	Date  time.Time
	Value float64
}

// TimeSeries is an ordered sequence of observations for one country/metric
// pair, strictly increasing by date. It is immutable once produced.
type TimeSeries []Point

// Values returns the raw values in series order.
func (s TimeSeries) Values() []float64 {
	vs := make([]float64, len(s))
	for i, p := range s {
		vs[i] = p.Value
	}
	return vs
}

// DerivedPoint is a transformed observation. Defined is false where the
// transform has no value, e.g. before a moving-average window fills or at a
// division by zero in a growth rate.
type DerivedPoint struct {
	Date    time.Time
	Value   float64
	Defined bool
}

// DerivedSeries is the output of a trend transform.
type DerivedSeries []DerivedPoint

// DateRange bounds a series query. A zero range means "use the default".
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether no bounds were requested.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// GlobalSummary holds the worldwide headline figures: the peak of the
// by-date roll-up for cumulative columns, the overall vaccination sum, and
// the span of the dataset.
type GlobalSummary struct {
	TotalCases        float64
	TotalDeaths       float64
	TotalVaccinations float64
	Countries         int
	Period            DateRange
}
