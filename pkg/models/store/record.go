package store

import "time"

// DailyRecord is the row shape of the daily_records table.
type DailyRecord struct {
	Country         string
	Date            time.Time
	NewCases        float64
	TotalCases      float64
	NewDeaths       float64
	TotalDeaths     float64
	NewVaccinations float64
}

// DatasetStats describes the loaded dataset.
type DatasetStats struct {
	RecordsCount int64
	Countries    int64
	FirstDate    *time.Time
	LastDate     *time.Time
}
