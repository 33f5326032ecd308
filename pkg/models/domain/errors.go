package domain

import "errors"

var (
	// ErrInvalidInput marks a request that cannot be computed: a bad window,
	// an empty series, an unknown metric, or a date absent from the table.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataLoad marks a source file that could not be read or parsed.
	// Nothing is served until the dataset loads cleanly.
	ErrDataLoad = errors.New("dataset load failed")

	// ErrForecastUnavailable marks a series with too little history to fit,
	// or an engine failure. The rest of the dashboard keeps working.
	ErrForecastUnavailable = errors.New("forecast unavailable")

	// ErrNotFound marks a country that does not exist in the dataset.
	ErrNotFound = errors.New("not found")
)
