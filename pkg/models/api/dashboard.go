package api

import "time"

type Country struct {
	Name string `json:"name"`
}

type GlobalSummary struct {
	TotalCases        float64   `json:"total_cases"`
	TotalDeaths       float64   `json:"total_deaths"`
	TotalVaccinations float64   `json:"total_vaccinations"`
	Countries         int       `json:"countries"`
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
}

// SeriesPoint carries a nullable value so undefined points (an unfilled
// moving-average window, a zero-division growth rate) serialize as null.
type SeriesPoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

type Series struct {
	Country   string        `json:"country"`
	Metric    string        `json:"metric"`
	Transform string        `json:"transform"`
	Window    int           `json:"window,omitempty"`
	Points    []SeriesPoint `json:"points"`
}

type ForecastRow struct {
	Date      string  `json:"date"`
	Predicted float64 `json:"predicted"`
	Lower     float64 `json:"lower_bound"`
	Upper     float64 `json:"upper_bound"`
}

type Forecast struct {
	Available bool          `json:"available"`
	Reason    string        `json:"reason,omitempty"`
	Country   string        `json:"country,omitempty"`
	Metric    string        `json:"metric,omitempty"`
	Horizon   int           `json:"horizon,omitempty"`
	Rows      []ForecastRow `json:"rows,omitempty"`
}

type Comparison struct {
	Metric string   `json:"metric"`
	Series []Series `json:"series"`
}
