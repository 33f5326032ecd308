// Package forecast wraps time-series prediction behind a narrow interface so
// the rest of the system stays agnostic to the fitting library in use.
package forecast

import (
	"context"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
)

// Engine extends an ordered series by horizon future periods. Implementations
// return ErrInvalidInput for a bad horizon and ErrForecastUnavailable when
// the series carries too little history to fit.
type Engine interface {
	Predict(ctx context.Context, series domain.TimeSeries, horizon int) ([]domain.ForecastPoint, error)
}
