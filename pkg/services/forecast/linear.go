package forecast

import (
	"context"
	"fmt"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultMinPoints is the minimum history needed to fit a trend line.
	DefaultMinPoints = 3

	// zScore95 bounds a ~95% interval around the fitted line.
	zScore95 = 1.96
)

// LinearEngine fits an ordinary least-squares trend line over the observed
// values and projects it forward at one-day steps. Interval bounds come from
// the standard deviation of the fit residuals.
type LinearEngine struct {
	MinPoints int
}

func NewLinearEngine() *LinearEngine {
	return &LinearEngine{MinPoints: DefaultMinPoints}
}

func (e *LinearEngine) Predict(
	_ context.Context,
	series domain.TimeSeries,
	horizon int,
) ([]domain.ForecastPoint, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: horizon must be >= 1, got %d", domain.ErrInvalidInput, horizon)
	}

	minPoints := e.MinPoints
	if minPoints < 2 {
		minPoints = 2
	}
	if len(series) < minPoints {
		return nil, fmt.Errorf("%w: need at least %d historical points, have %d",
			domain.ErrForecastUnavailable, minPoints, len(series))
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = float64(i)
		ys[i] = p.Value
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	residuals := make([]float64, len(series))
	for i := range xs {
		residuals[i] = ys[i] - (alpha + beta*xs[i])
	}
	spread := stat.StdDev(residuals, nil)
	bound := zScore95 * spread

	last := series[len(series)-1].Date
	points := make([]domain.ForecastPoint, 0, horizon)
	for h := 1; h <= horizon; h++ {
		x := float64(len(series) - 1 + h)
		y := alpha + beta*x
		points = append(points, domain.ForecastPoint{
			Date:  last.AddDate(0, 0, h),
			Value: y,
			Lower: y - bound,
			Upper: y + bound,
		})
	}
	return points, nil
}
