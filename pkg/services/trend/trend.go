// Package trend implements pure, stateless transforms over ordered numeric
// series: trailing moving averages, day-over-day growth rates, and cross
// country roll-ups for a fixed date.
package trend

import (
	"fmt"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
)

// MovingAverage computes the trailing mean over a window of the given size.
// The output has the same length as the input; the first window-1 points are
// emitted with Defined=false since the window has not filled yet.
func MovingAverage(series domain.TimeSeries, window int) (domain.DerivedSeries, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: window must be >= 1, got %d", domain.ErrInvalidInput, window)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: empty series", domain.ErrInvalidInput)
	}

	out := make(domain.DerivedSeries, len(series))
	var sum float64
	for i, p := range series {
		sum += p.Value
		if i >= window {
			sum -= series[i-window].Value
		}
		out[i] = domain.DerivedPoint{Date: p.Date}
		if i+1 >= window {
			out[i].Value = sum / float64(window)
			out[i].Defined = true
		}
	}
	return out, nil
}

// GrowthRate computes the relative change between consecutive values,
// (next-prev)/prev, as a ratio. The output has length N-1 and point i carries
// the date of input point i+1. Where the previous value is zero the point is
// emitted with Defined=false instead of failing.
func GrowthRate(series domain.TimeSeries) (domain.DerivedSeries, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: empty series", domain.ErrInvalidInput)
	}

	out := make(domain.DerivedSeries, 0, len(series)-1)
	for i := 0; i+1 < len(series); i++ {
		p := domain.DerivedPoint{Date: series[i+1].Date}
		if series[i].Value > 0 {
			p.Value = (series[i+1].Value - series[i].Value) / series[i].Value
			p.Defined = true
		}
		out = append(out, p)
	}
	return out, nil
}

// AggregateGlobal sums a metric across all countries that reported on the
// given date. Countries without a record for that date contribute nothing;
// a date with no records at all is an error, not a zero.
func AggregateGlobal(records []domain.DailyRecord, metric domain.Metric, date time.Time) (float64, error) {
	if _, err := domain.ParseMetric(string(metric)); err != nil {
		return 0, err
	}

	var sum float64
	found := false
	for _, r := range records {
		if sameDay(r.Date, date) {
			sum += metric.ValueOf(r)
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: no records for date %s",
			domain.ErrInvalidInput, date.Format("2006-01-02"))
	}
	return sum, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
